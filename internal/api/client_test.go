package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/internal/wire"
	"github.com/example/vocabtrainer/pkg/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestListTopics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/topics", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[{"id":1,"title":"Animals"},{"id":2,"title":"Food"}]`))
	})

	topics, err := c.ListTopics(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Animals", topics[0].Title)
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"topic not found"}`))
	})

	_, err := c.GetTopic(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrNotFound))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "topic not found", apiErr.Message)
}

func TestServerErrorIsNotNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.DeleteTopic(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, backend.ErrNotFound))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "boom", apiErr.Message)
}

func TestCreateUserProgressEncodesCardIDs(t *testing.T) {
	var got wire.ProgressPayload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user-vocabulaires", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		got.ID = 42
		json.NewEncoder(w).Encode(got)
	})

	p := &models.UserProgress{
		UserID:          7,
		VocabulaireID:   3,
		TopicID:         1,
		Status:          models.StatusDoing,
		PercentComplete: 40,
		StudiedCardIDs:  []int64{2, 4},
	}
	require.NoError(t, c.CreateUserProgress(context.Background(), p))

	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, "[2,4]", got.VocabulaireQuestionListID)
	assert.Equal(t, models.StatusDoing, got.Status)
}

func TestListUserProgressFiltersByUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("userId"))
		w.Write([]byte(`[
			{"id":1,"userId":7,"vocabulaireId":3,"status":"doing","percentComplete":40,"vocabulaireQuestionListId":"[2,4]"},
			{"id":2,"userId":7,"vocabulaireId":5,"status":"","percentComplete":0,"vocabulaireQuestionListId":"not json"}
		]`))
	})

	records, err := c.ListUserProgress(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []int64{2, 4}, records[0].StudiedCardIDs)
	assert.Equal(t, []int64{}, records[1].StudiedCardIDs)
	assert.Equal(t, models.StatusStart, records[1].Status)
}

func TestGetExamWithMalformedList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user-exams/5", r.URL.Path)
		w.Write([]byte(`{"id":5,"userId":7,"list":"{oops"}`))
	})

	exam, err := c.GetExam(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), exam.ID)
	assert.Empty(t, exam.List)
}

func TestUpdateExamSendsListAsString(t *testing.T) {
	var body map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/user-exams/5", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	})

	exam := &models.Exam{ID: 5, UserID: 7, List: []models.ExamEntry{{QuestionID: 1, Answer: "cat", IsCorrect: true}}}
	require.NoError(t, c.UpdateExam(context.Background(), exam))

	list, ok := body["list"].(string)
	require.True(t, ok)
	assert.JSONEq(t, `[{"questionId":1,"answer":"cat","isCorrect":true}]`, list)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/login", r.URL.Path)
		var creds models.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":3,"email":"a@b.c","role":"admin"}`))
	})

	user, err := c.Login(context.Background(), models.Credentials{Email: "a@b.c", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = c.Login(context.Background(), models.Credentials{Email: "a@b.c", Password: "nope"})
	assert.ErrorIs(t, err, backend.ErrInvalidCredentials)
}
