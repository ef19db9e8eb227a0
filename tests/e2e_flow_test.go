package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mpetrov/liftbook/internal/config"
	"github.com/mpetrov/liftbook/internal/repository"
	"github.com/mpetrov/liftbook/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTemplateEditingFlow drives the full template lifecycle over HTTP
// against a real MongoDB container: create, read, entry edits, reorder,
// ownership enforcement and deletion.
func TestTemplateEditingFlow(t *testing.T) {
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	mockAuth := NewMockAuthClient()
	mockAuth.AddMockUser("token_alice", "uid_alice")
	mockAuth.AddMockUser("token_bob", "uid_bob")

	cfg := &config.Config{}
	cfg.Auth.Mode = "firebase"
	cfg.Catalog.Source = "static"

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		Docs:        repository.NewMongoDocumentStore(db),
		RedisClient: redisClient,
		Verifier:    mockAuth,
	})

	request := func(method, path, token string, body interface{}) *http.Response {
		var bodyReader io.Reader
		if body != nil {
			jsonBytes, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(jsonBytes)
		}
		req, _ := http.NewRequest(method, path, bodyReader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	decode := func(resp *http.Response) map[string]interface{} {
		var data map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
		return data
	}

	// Catalog is readable without a token
	resp := request("GET", "/v1/exercises", "", nil)
	assert.Equal(t, 200, resp.StatusCode)
	var exercises []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&exercises))
	require.NotEmpty(t, exercises)

	// Templates require a token
	resp = request("GET", "/v1/templates/", "", nil)
	assert.Equal(t, 401, resp.StatusCode)

	// Alice creates a template with two entries
	resp = request("POST", "/v1/templates/", "token_alice", map[string]interface{}{
		"name":        "Push Day",
		"description": "Chest and triceps",
		"exercises": []map[string]interface{}{
			{"exercise_id": "bench_press", "target_sets": 4, "target_reps": "6-8"},
			{"exercise_id": "overhead_press", "target_sets": 3, "target_reps": "8-10"},
		},
	})
	require.Equal(t, 201, resp.StatusCode)
	created := decode(resp)
	templateID := created["id"].(string)
	require.NotEmpty(t, templateID)
	assert.Equal(t, "uid_alice", created["owner_id"])

	entries := created["exercises"].([]interface{})
	require.Len(t, entries, 2)
	firstEntry := entries[0].(map[string]interface{})
	secondEntry := entries[1].(map[string]interface{})
	assert.Equal(t, float64(0), firstEntry["order"])
	assert.Equal(t, float64(1), secondEntry["order"])

	// Creating an empty template is rejected
	resp = request("POST", "/v1/templates/", "token_alice", map[string]interface{}{
		"name":      "Empty",
		"exercises": []map[string]interface{}{},
	})
	assert.Equal(t, 400, resp.StatusCode)

	// Unknown exercise is rejected
	resp = request("POST", "/v1/templates/", "token_alice", map[string]interface{}{
		"name": "Bad",
		"exercises": []map[string]interface{}{
			{"exercise_id": "does_not_exist", "target_sets": 3, "target_reps": "10"},
		},
	})
	assert.Equal(t, 400, resp.StatusCode)

	// Alice sees her template in the list
	resp = request("GET", "/v1/templates/", "token_alice", nil)
	assert.Equal(t, 200, resp.StatusCode)
	var list []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)

	// Bob's list is empty
	resp = request("GET", "/v1/templates/", "token_bob", nil)
	assert.Equal(t, 200, resp.StatusCode)
	var bobList []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bobList))
	assert.Empty(t, bobList)

	// Add a third entry
	resp = request("POST", "/v1/templates/"+templateID+"/exercises", "token_alice", map[string]interface{}{
		"exercise_id": "tricep_dips",
		"target_sets": 3,
		"target_reps": "12",
		"notes":       "bodyweight",
	})
	require.Equal(t, 201, resp.StatusCode)
	added := decode(resp)
	addedID := added["id"].(string)
	require.NotEmpty(t, addedID)
	assert.Equal(t, float64(2), added["order"])

	// Update the new entry's sets
	resp = request("PUT", "/v1/templates/"+templateID+"/exercises/"+addedID, "token_alice", map[string]interface{}{
		"target_sets": 5,
	})
	assert.Equal(t, 200, resp.StatusCode)

	// Reorder: move the new entry to the front
	firstID := firstEntry["id"].(string)
	secondID := secondEntry["id"].(string)
	resp = request("PUT", "/v1/templates/"+templateID+"/order", "token_alice", map[string]interface{}{
		"entry_ids": []string{addedID, firstID, secondID},
	})
	require.Equal(t, 200, resp.StatusCode)
	reordered := decode(resp)
	reorderedEntries := reordered["exercises"].([]interface{})
	require.Len(t, reorderedEntries, 3)
	assert.Equal(t, addedID, reorderedEntries[0].(map[string]interface{})["id"])

	// A partial id list is not a valid reorder
	resp = request("PUT", "/v1/templates/"+templateID+"/order", "token_alice", map[string]interface{}{
		"entry_ids": []string{addedID},
	})
	assert.Equal(t, 400, resp.StatusCode)

	// Bob cannot modify Alice's template
	resp = request("PATCH", "/v1/templates/"+templateID, "token_bob", map[string]interface{}{
		"name": "Hijacked",
	})
	assert.Equal(t, 403, resp.StatusCode)

	resp = request("DELETE", "/v1/templates/"+templateID, "token_bob", nil)
	assert.Equal(t, 403, resp.StatusCode)

	// Alice renames her template
	resp = request("PATCH", "/v1/templates/"+templateID, "token_alice", map[string]interface{}{
		"name": "Push Day A",
	})
	require.Equal(t, 200, resp.StatusCode)
	renamed := decode(resp)
	assert.Equal(t, "Push Day A", renamed["name"])

	// Remove an entry; remaining orders keep their values
	resp = request("DELETE", "/v1/templates/"+templateID+"/exercises/"+secondID, "token_alice", nil)
	require.Equal(t, 200, resp.StatusCode)
	afterRemove := decode(resp)
	assert.Len(t, afterRemove["exercises"].([]interface{}), 2)

	// Removing it again is a 404
	resp = request("DELETE", "/v1/templates/"+templateID+"/exercises/"+secondID, "token_alice", nil)
	assert.Equal(t, 404, resp.StatusCode)

	// Alice deletes the template
	resp = request("DELETE", "/v1/templates/"+templateID, "token_alice", nil)
	assert.Equal(t, 200, resp.StatusCode)

	resp = request("GET", "/v1/templates/"+templateID, "token_alice", nil)
	assert.Equal(t, 404, resp.StatusCode)

	// Delete is idempotent
	resp = request("DELETE", "/v1/templates/"+templateID, "token_alice", nil)
	assert.Equal(t, 200, resp.StatusCode)
}
