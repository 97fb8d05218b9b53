package chatcmder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const chatLongDesc = `Open an interactive chat against a running docsage server.

Keeps one session for the whole conversation, so follow-up questions like
"what about its height?" are understood in context.

Examples:
  docsage chat
  docsage chat --server http://localhost:6061`

type chatCommander struct {
	serverURL string
}

// NewChatCmd builds the chat subcommand.
func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a running docsage server",
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.serverURL, "server", "s", "http://localhost:8080", "docsage server URL")

	return cmd
}

func (c *chatCommander) run() error {
	client := &apiClient{
		baseURL: strings.TrimRight(c.serverURL, "/"),
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
	_, err := tea.NewProgram(newModel(client), tea.WithAltScreen()).Run()
	return err
}

// apiClient is the thin HTTP client for the chat endpoint.
type apiClient struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Messages  string `json:"messages"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Error     string `json:"error"`
}

// Ask sends one question, carrying the session id across calls so the
// server can resolve follow-ups against prior turns.
func (c *apiClient) Ask(question string) (string, error) {
	body, err := json.Marshal(chatRequest{SessionID: c.sessionID, Messages: question})
	if err != nil {
		return "", err
	}

	resp, err := c.client.Post(c.baseURL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", fmt.Errorf("server error: %s", out.Error)
		}
		return "", fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	c.sessionID = out.SessionID
	return out.Message, nil
}
