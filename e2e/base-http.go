package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration and skips the suite
// entirely when no server answers on the configured address.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	s.client = &http.Client{Timeout: 10 * time.Second}
	resp, err := s.client.Get(s.Config.ServerAddr + "/health")
	if err != nil {
		s.T().Skipf("no server reachable at %s: %v", s.Config.ServerAddr, err)
	}
	_ = resp.Body.Close()
}

// GraphQL posts a query to the server, with logging, colors, and JSON debugging.
// An optional bearer token authenticates the request.
func (s *BaseHTTPSuite) GraphQL(t *testing.T, name, token, query string, variables map[string]interface{}) graphqlResponse {
	t.Helper()

	// 1. Print a colorized header for the request step in logs
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.Config.ServerAddr+"/graphql", bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	t.Logf("POST /graphql [%d] in %v", resp.StatusCode, time.Since(start))

	var out graphqlResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))

	// Log full JSON response bodies if E2E_DEBUG_JSON is enabled
	if s.Config.DebugJSON {
		dump, _ := json.MarshalIndent(out, "", "  ")
		t.Logf("Response:\n%s", dump)
	}
	return out
}

// Payload decodes a mutation envelope out of a response and fails the
// test when the field is missing.
func (s *BaseHTTPSuite) Payload(t *testing.T, resp graphqlResponse, field string, out interface{}) {
	t.Helper()
	raw, ok := resp.Data[field]
	s.Require().True(ok, "missing payload for %s", field)
	s.Require().NoError(json.Unmarshal(raw, out))
}
