package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/draftboard/internal/api/middleware"
	"github.com/mcoot/draftboard/internal/dependencies/mocks"
	"github.com/mcoot/draftboard/internal/services/auth"
	"github.com/mcoot/draftboard/internal/testutil"
)

type MiddlewareSuite struct {
	suite.Suite
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *MiddlewareSuite) TestRecoveryWritesJSONError() {
	h := middleware.Recovery(testutil.NopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(rec.Body.String(), "INTERNAL_ERROR")
}

func (s *MiddlewareSuite) TestLoggingAssignsRequestID() {
	h := middleware.Logging(testutil.NopLogger())(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	s.Equal(http.StatusNoContent, rec.Code)
	s.NotEmpty(rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	s.Equal("abc", rec.Header().Get(middleware.RequestIDHeader))
}

func (s *MiddlewareSuite) TestAuthGuardsMutations() {
	hash, err := auth.HashPassword("hunter2")
	s.Require().NoError(err)
	svc, err := auth.New(auth.Config{PasswordHash: hash}, mocks.NewMockClock(time.Now()))
	s.Require().NoError(err)
	h := middleware.Auth(svc)(http.HandlerFunc(ok))

	serve := func(method, token string) int {
		req := httptest.NewRequest(method, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	s.Equal(http.StatusNoContent, serve(http.MethodGet, ""))
	s.Equal(http.StatusUnauthorized, serve(http.MethodPost, ""))
	s.Equal(http.StatusUnauthorized, serve(http.MethodPost, "wrong"))
	s.Equal(http.StatusNoContent, serve(http.MethodPost, "hunter2"))
}

func (s *MiddlewareSuite) TestAuthDisabledWithoutPassword() {
	svc, err := auth.New(auth.Config{}, mocks.NewMockClock(time.Now()))
	s.Require().NoError(err)
	h := middleware.Auth(svc)(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	s.Equal(http.StatusNoContent, rec.Code)
}
