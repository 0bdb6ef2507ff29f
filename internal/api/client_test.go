package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"eadmin/internal/apierr"
	"eadmin/internal/querycache"
	"eadmin/internal/repository"
	"eadmin/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenStub struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (s *tokenStub) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *tokenStub) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	return nil
}

var fastRetry = RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *tokenStub) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &tokenStub{token: "tok-123"}
	base := []Option{WithTokenStore(tokens), WithRetryPolicy(fastRetry)}
	return NewClient(srv.URL+"/", append(base, opts...)...), tokens
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const userJSON = `{"id":"u1","name":"Ana","email":"ana@ea.com","role":"TEACHER"}`

func TestClient_Headers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		_, _ = io.WriteString(w, userJSON)
	})

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "TEACHER", user.Role)
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, userJSON)
	})
	tokens.token = ""

	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	var calls atomic.Int32
	signedOut := false
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}, WithUnauthorizedHandler(func() { signedOut = true }))

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierr.ErrUnauthorized))
	assert.Equal(t, 1, tokens.cleared)
	assert.Empty(t, tokens.token)
	assert.True(t, signedOut)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_SignIn(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/sign-in", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))

			var body SignInRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ana@ea.com", body.Email)
			writeJSON(w, http.StatusOK, map[string]string{"token": "new-token"})
		})

		token, err := client.SignIn(context.Background(), SignInRequest{Email: "ana@ea.com", Password: "12345678"})
		require.NoError(t, err)
		assert.Equal(t, "new-token", token)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, apierr.Body{Message: "invalid credentials"})
		})

		_, err := client.SignIn(context.Background(), SignInRequest{Email: "ana@ea.com", Password: "12345678"})
		require.Error(t, err)
		assert.False(t, errors.Is(err, apierr.ErrUnauthorized))
		var apiErr *apierr.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Zero(t, tokens.cleared)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request must not be sent")
		})

		_, err := client.SignIn(context.Background(), SignInRequest{Email: "ana@ea.com", Password: "123"})
		var fe validation.FieldErrors
		require.True(t, errors.As(err, &fe))
		_, ok := fe.Get("password")
		assert.True(t, ok)
	})
}

func TestClient_DomainErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusConflict, apierr.Body{Message: "overlap", Code: "RESERVATION_INTERVAL_OVERLAP"})
	})

	err := client.CreateReservation(context.Background(), ReservationInput{
		AcademicSpaceID: uuid.NewString(),
		StartDateTime:   "2025-05-11T09:00:00-03:00",
		EndDateTime:     "2025-05-11T10:00:00-03:00",
	})
	require.Error(t, err)
	assert.Equal(t, apierr.CodeReservationIntervalOverlap, apierr.CodeOf(err))
	assert.Equal(t, "Já existe uma reserva nesse intervalo", apierr.CreateReservation.For(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		body string
		run  func(c *Client) error
	}{
		{"MissingField", `{"id":"u1","email":"ana@ea.com","role":"TEACHER"}`, func(c *Client) error {
			_, err := c.CurrentUser(context.Background())
			return err
		}},
		{"WrongType", `[{"id":"s1","capacity":"ten"}]`, func(c *Client) error {
			_, err := c.ListAllSpaces(context.Background())
			return err
		}},
		{"InvalidElement", `{"totalOfPages":1,"pageSize":10,"page":1,"content":[{"id":""}]}`, func(c *Client) error {
			_, err := c.ListReservations(context.Background(), FilterParams{})
			return err
		}},
		{"NotJSON", `<html>oops</html>`, func(c *Client) error {
			_, err := c.CountMetrics(context.Background())
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				_, _ = io.WriteString(w, tt.body)
			})

			err := tt.run(client)
			require.Error(t, err)
			assert.True(t, IsSchemaMismatch(err), err.Error())
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestClient_QueryRetries(t *testing.T) {
	t.Run("RecoversOnThirdAttempt", func(t *testing.T) {
		var calls atomic.Int32
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, `{"reservations":3,"academicSpaces":2,"users":1}`)
		})

		m, err := client.CountMetrics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, m.Reservations)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("Bounded", func(t *testing.T) {
		var calls atomic.Int32
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.CountMetrics(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("NotForCanceled", func(t *testing.T) {
		var calls atomic.Int32
		ctx, cancel := context.WithCancel(context.Background())
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			cancel()
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.CountMetrics(ctx)
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("NotForMutations", func(t *testing.T) {
		var calls atomic.Int32
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		err := client.CancelReservation(context.Background(), uuid.NewString())
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestClient_Cache(t *testing.T) {
	var calls atomic.Int32
	cache := querycache.New(repository.NewMemoryCacheRepository(), time.Minute, nil)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `[{"id":"s1","roomName":"Lab","acronym":"L1","description":"d","capacity":10,"status":"AVAILABLE","available":true}]`)
	}, WithCache(cache))

	ctx := context.Background()
	first, err := client.ListAllSpaces(ctx)
	require.NoError(t, err)
	second, err := client.ListAllSpaces(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, cache.Invalidate(ctx, querycache.KeyAllSpaces))
	_, err = client.ListAllSpaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_RateLimit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, userJSON)
	}, WithRateLimit(1000, 1))

	for i := 0; i < 3; i++ {
		_, err := client.CurrentUser(context.Background())
		require.NoError(t, err)
	}
}
