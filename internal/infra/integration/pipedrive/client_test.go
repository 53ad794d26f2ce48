package pipedrive_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/pipedrive"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// fakeTokenRepo chaveado por creator_id
type fakeTokenRepo struct {
	tokens map[string]*entity.OAuthToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*entity.OAuthToken{}}
}

func (r *fakeTokenRepo) Get(ctx context.Context, provider, creatorID string) (*entity.OAuthToken, error) {
	return r.tokens[creatorID], nil
}

func (r *fakeTokenRepo) GetByEmail(ctx context.Context, provider, email string) (*entity.OAuthToken, error) {
	for _, t := range r.tokens {
		if t.UserEmail == email {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) Save(ctx context.Context, token *entity.OAuthToken) error {
	r.tokens[token.CreatorID] = token
	return nil
}

func (r *fakeTokenRepo) Delete(ctx context.Context, provider, creatorID string) error {
	delete(r.tokens, creatorID)
	return nil
}

func (r *fakeTokenRepo) DeleteAll(ctx context.Context, provider string) error {
	r.tokens = map[string]*entity.OAuthToken{}
	return nil
}

type fakeRefresher struct {
	repo  *fakeTokenRepo
	fresh *entity.OAuthToken
	calls int
}

func (f *fakeRefresher) Refresh(ctx context.Context, stale *entity.OAuthToken) (*entity.OAuthToken, error) {
	f.calls++
	if f.repo != nil {
		f.repo.tokens[f.fresh.CreatorID] = f.fresh
	}
	return f.fresh, nil
}

func TestGetOrganization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations/55", r.URL.Path)
		assert.Equal(t, "Bearer acc-77", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"success":true,"data":{"id":55,"name":"Globex"}}`)
	}))
	defer srv.Close()

	repo := newFakeTokenRepo()
	repo.tokens["77"] = &entity.OAuthToken{Provider: entity.ProviderPipedrive, CreatorID: "77", AccessToken: "acc-77"}
	client := pipedrive.NewClientWithBaseURL(srv.URL, repo, &fakeRefresher{})

	company, err := client.GetOrganization(context.Background(), "55", "77")

	assert.NoError(t, err)
	assert.Equal(t, "Globex", company.Name)
}

// Sem token do creator não tem o que renovar: erro de auth direto
func TestMissingCreatorToken(t *testing.T) {
	client := pipedrive.NewClientWithBaseURL("http://unused", newFakeTokenRepo(), &fakeRefresher{})

	_, err := client.GetOrganization(context.Background(), "55", "77")

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeUpstreamAuthFailure, usecase.DomainCode(err))
	assert.Contains(t, err.Error(), "No access token for creator_id 77")
}

func TestUnauthorizedRefreshesAndRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer acc-novo" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"success":true,"data":{"id":55,"name":"Globex"}}`)
	}))
	defer srv.Close()

	repo := newFakeTokenRepo()
	repo.tokens["77"] = &entity.OAuthToken{Provider: entity.ProviderPipedrive, CreatorID: "77", AccessToken: "acc-vencido", RefreshToken: "ref-77"}
	refresher := &fakeRefresher{repo: repo, fresh: &entity.OAuthToken{CreatorID: "77", AccessToken: "acc-novo"}}
	client := pipedrive.NewClientWithBaseURL(srv.URL, repo, refresher)

	company, err := client.GetOrganization(context.Background(), "55", "77")

	assert.NoError(t, err)
	assert.Equal(t, "Globex", company.Name)
	assert.Equal(t, 1, refresher.calls)
}

func TestResolveCompanyValidatesInput(t *testing.T) {
	client := pipedrive.NewClientWithBaseURL("http://unused", newFakeTokenRepo(), &fakeRefresher{})

	_, err := client.ResolveCompany(context.Background(), usecase.ProcessWebhookInput{OrganizationID: "55"})
	assert.Equal(t, usecase.CodeBadPayload, usecase.DomainCode(err))

	_, err = client.ResolveCompany(context.Background(), usecase.ProcessWebhookInput{CreatorID: "77"})
	assert.Equal(t, usecase.CodeBadPayload, usecase.DomainCode(err))
}

func TestGetCurrentUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"data":{"id":77,"name":"Jane"}}`)
	}))
	defer srv.Close()

	client := pipedrive.NewClientWithBaseURL(srv.URL, newFakeTokenRepo(), &fakeRefresher{})

	id, err := client.GetCurrentUserID(context.Background(), "acc-77")

	assert.NoError(t, err)
	assert.Equal(t, "77", id)
}

func TestEnsureWebhookAlreadyExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, `{"status":"ok","data":[{"id":1,"event_action":"create","event_object":"lead","subscription_url":"https://leads.example.com/pipedrive/webhook/lead","is_active":1}]}`)
	}))
	defer srv.Close()

	client := pipedrive.NewClientWithBaseURL(srv.URL, newFakeTokenRepo(), &fakeRefresher{})

	exists, err := client.EnsureWebhook(context.Background(), "acc", "https://leads.example.com/pipedrive/webhook/lead")

	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestEnsureWebhookCreatesWhenMissing(t *testing.T) {
	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// Um inativo e um de outra URL: nenhum serve
			fmt.Fprint(w, `{"status":"ok","data":[
				{"id":1,"event_action":"create","event_object":"lead","subscription_url":"https://leads.example.com/pipedrive/webhook/lead","is_active":0},
				{"id":2,"event_action":"create","event_object":"lead","subscription_url":"https://outra.example.com/hook","is_active":1}]}`)
		case http.MethodPost:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"status":"ok","data":{"id":3}}`)
		}
	}))
	defer srv.Close()

	client := pipedrive.NewClientWithBaseURL(srv.URL, newFakeTokenRepo(), &fakeRefresher{})

	exists, err := client.EnsureWebhook(context.Background(), "acc", "https://leads.example.com/pipedrive/webhook/lead")

	assert.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, "create", created["event_action"])
	assert.Equal(t, "lead", created["event_object"])
	assert.True(t, strings.HasSuffix(created["subscription_url"].(string), "/pipedrive/webhook/lead"))
}
