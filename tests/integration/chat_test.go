//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_FAQAnswerThenCacheHit(t *testing.T) {
	env := SetupTestEnv(t)
	session := fmt.Sprintf("chat-%d", uniqueID())

	// First ask resolves from the FAQ and writes the pair back.
	data := SendMessage(t, env, session, "What are your shipping times?")
	assert.Equal(t, "Standard shipping takes 3-5 business days.", data["reply"])
	assert.Equal(t, "exact_faq", data["source"])
	assert.Equal(t, false, data["done"])

	// Second ask is served from the persistent cache.
	data = SendMessage(t, env, session, "What are your shipping times?")
	assert.Equal(t, "Standard shipping takes 3-5 business days.", data["reply"])
	assert.Equal(t, "semantic_cache", data["source"])
}

func TestChat_ThankYouAndExit(t *testing.T) {
	env := SetupTestEnv(t)
	session := fmt.Sprintf("chat-%d", uniqueID())

	// Keep the phrase away from cached questions so intent detection is
	// what answers it, not a lucky hash collision in the cache tier.
	env.Embedder.vectors["thanks a lot"] = oneHot(201)

	data := SendMessage(t, env, session, "thanks a lot!")
	assert.Equal(t, "thank_you", data["source"])

	data = SendMessage(t, env, session, "exit")
	assert.Equal(t, "exit", data["source"])
	assert.Equal(t, true, data["done"])
}

func TestChat_OutOfScope(t *testing.T) {
	env := SetupTestEnv(t)
	session := fmt.Sprintf("chat-%d", uniqueID())

	// Pin the query far from every FAQ vector.
	env.Embedder.vectors["can you fix my washing machine"] = oneHot(200)

	data := SendMessage(t, env, session, "can you fix my washing machine")
	assert.Equal(t, "out_of_scope", data["source"])
	assert.Equal(t, false, data["done"])
}

func TestChat_ValidationErrors(t *testing.T) {
	env := SetupTestEnv(t)

	resp := DoRequest(t, env, "POST", "/api/v1/chat/message", map[string]string{
		"message": "no session id",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = DoRequest(t, env, "POST", "/api/v1/chat/message", map[string]string{
		"session_id": "s1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_ClearSession(t *testing.T) {
	env := SetupTestEnv(t)
	session := fmt.Sprintf("chat-%d", uniqueID())

	SendMessage(t, env, session, "What is your return policy?")

	resp := DoRequest(t, env, "DELETE", "/api/v1/sessions/"+session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := ParseResponse(t, resp)
	assert.Equal(t, "session cleared", result["message"])
}

func TestHealth_Endpoints(t *testing.T) {
	env := SetupTestEnv(t)

	resp := DoRequest(t, env, "GET", "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = DoRequest(t, env, "GET", "/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := ParseResponse(t, resp)
	data := result["data"].(map[string]any)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "healthy", data["redis"])
	assert.Equal(t, "healthy", data["postgres"])
}
