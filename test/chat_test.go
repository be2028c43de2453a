//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sterrysx/gymai/internal/coach"
)

func (s *IntegrationTestSuite) TestChat_UnreachableModel() {
	resp, body := s.doJSON(http.MethodPost, "/chat", coach.ChatRequest{Message: "how is my bench going?"})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var chat coach.ChatResponse
	s.Require().NoError(json.Unmarshal(body, &chat))
	s.NotEmpty(chat.ConversationID)
	s.True(strings.HasPrefix(chat.Reply, "Sorry, I couldn't reach the AI model."), chat.Reply)

	resp, body = s.doJSON(http.MethodGet, "/chat/"+chat.ConversationID, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var conv coach.Conversation
	s.Require().NoError(json.Unmarshal(body, &conv))
	s.Equal(chat.ConversationID, conv.ID)
	s.Require().Len(conv.Messages, 2)
	s.Equal(coach.RoleUser, conv.Messages[0].Role)
	s.Equal("how is my bench going?", conv.Messages[0].Content)

	resp, body = s.doJSON(http.MethodGet, "/chat/history", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var history coach.HistoryResponse
	s.Require().NoError(json.Unmarshal(body, &history))
	found := false
	for _, info := range history.Conversations {
		found = found || info.ID == chat.ConversationID
	}
	s.True(found)

	resp, _ = s.doJSON(http.MethodPost, "/chat", coach.ChatRequest{Message: "   "})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
