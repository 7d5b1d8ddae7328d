//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	pacttest "github.com/Apurer/petguard-api/test/pact"
)

type petPayload struct {
	ID             int64  `json:"id"`
	OrganizationID *int64 `json:"organization_id"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	IsAdopted      bool   `json:"is_adopted"`
	Photo          struct {
		URL string `json:"url"`
	} `json:"photo"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail     string `json:"detail"`
	Extensions struct {
		Kind string `json:"kind"`
	} `json:"extensions"`
}

type apiError struct {
	status int
	kind   string
	title  string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s [%s] (status %d)", e.title, e.kind, e.status)
}

func TestShelterPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	requestPet := pacttest.ExamplePetPayload()
	petBodyMatcher := matchers.Map{
		"id":              matchers.Like(pacttest.ExistingPetID),
		"organization_id": matchers.Like(1),
		"name":            matchers.Like(requestPet["name"]),
		"kind":            matchers.Term("CAT", "CAT|DOG"),
		"sex":             matchers.Term("FEMALE", "FEMALE|MALE"),
		"height":          matchers.Term("SMALL", "SMALL|MEDIUM|BIG"),
		"temperament":     matchers.Term("FRIENDLY", "DOCILE|FRIENDLY|BRAVE"),
		"is_adopted":      matchers.Like(false),
		"photo": matchers.Map{
			"url":  matchers.Like(""),
			"name": matchers.Like(""),
			"size": matchers.Like(0),
		},
		"alimentation": matchers.Map{
			"qtd":       matchers.Term("SMALL", "SMALL|MEDIUM|BIG"),
			"food":      matchers.Like("kibble"),
			"frequency": matchers.Like(2),
		},
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	authorization := matchers.S("Bearer " + pacttest.BearerToken)
	fetchPath := func(id int64) string {
		return fmt.Sprintf("/v1/principals/%s/pets/%d", pacttest.ShelterUsername, id)
	}

	pact.AddInteraction().
		Given(pacttest.StateShelterBaseline).
		UponReceiving("a request to register a pet for the shelter").
		WithRequest(http.MethodPost, "/v1/pets", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", authorization)
			b.JSONBody(requestPet)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(petBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StatePetExists).
		UponReceiving("a request to list adoptable pets").
		WithRequest(http.MethodGet, "/v1/pets", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("is_adoption", matchers.S("true"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(petBodyMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StatePetExists).
		UponReceiving("a request to fetch a pet held by the shelter").
		WithRequest(http.MethodGet, fetchPath(pacttest.ExistingPetID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", authorization)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(petBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StatePetMissing).
		UponReceiving("a request for a pet the shelter does not hold").
		WithRequest(http.MethodGet, fetchPath(pacttest.MissingPetID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", authorization)
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
				"extensions": matchers.Map{
					"kind": matchers.S("not_found"),
				},
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newShelterClient(config, pacttest.BearerToken)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreatePet(ctx, requestPet)
		if err != nil {
			return fmt.Errorf("create pet: %w", err)
		}
		if created.ID == 0 || created.OrganizationID == nil {
			return fmt.Errorf("expected a stewarded pet with an ID, got %+v", created)
		}

		adoptable, err := client.ListAdoptable(ctx)
		if err != nil {
			return fmt.Errorf("list adoptable: %w", err)
		}
		if len(adoptable) == 0 {
			return errors.New("expected at least one adoptable pet")
		}

		fetched, err := client.FetchPet(ctx, pacttest.ShelterUsername, pacttest.ExistingPetID)
		if err != nil {
			return fmt.Errorf("fetch pet: %w", err)
		}
		if fetched.ID != pacttest.ExistingPetID {
			return fmt.Errorf("expected pet id %d, got %+v", pacttest.ExistingPetID, fetched)
		}

		_, err = client.FetchPet(ctx, pacttest.ShelterUsername, pacttest.MissingPetID)
		var apiErr apiError
		if !errors.As(err, &apiErr) || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for pet %d, got %v", pacttest.MissingPetID, err)
		}
		return nil
	})
	require.NoError(t, err)
}

type shelterClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newShelterClient(config pactconsumer.MockServerConfig, token string) *shelterClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &shelterClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		token:      token,
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *shelterClient) CreatePet(ctx context.Context, pet map[string]any) (*petPayload, error) {
	body, err := json.Marshal(pet)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pets", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	var payload petPayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *shelterClient) ListAdoptable(ctx context.Context) ([]petPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/pets?is_adoption=true", nil)
	if err != nil {
		return nil, err
	}
	var payload []petPayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *shelterClient) FetchPet(ctx context.Context, identity string, id int64) (*petPayload, error) {
	url := fmt.Sprintf("%s/v1/principals/%s/pets/%d", c.baseURL, identity, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	var payload petPayload
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *shelterClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{status: status, kind: problem.Extensions.Kind, title: problem.Title}
}
