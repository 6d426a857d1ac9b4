// Package client - HTTP-клиент портала героя и админки к /api.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/superfix/superfix-backend/internal/dto"
	missiondto "github.com/superfix/superfix-backend/internal/interface/http/dto"
	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/models"
)

// ErrNetwork - сервер недоступен. Пользователь видит общее сообщение, повторов нет.
var ErrNetwork = errors.New("не удалось связаться с сервером, попробуйте позже")

// APIError - бизнес-ошибка сервера, текст показывается как есть.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// TokenSource отдаёт текущий токен (session.Session).
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// New создаёт клиент. baseURL - адрес вида https://host/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: не удалось сериализовать запрос: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		logger.WithComponent("client").WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL.String(),
		}).WithError(err).Warn("запрос не выполнен")
		return ErrNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return ErrNetwork
		}
		*raw = data
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: неожиданный ответ сервера: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

// Login - вход администратора.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	var res dto.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Username: username, Password: password}, &res)
	return &res, err
}

// HeroLogin - вход героя.
func (c *Client) HeroLogin(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	var res dto.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/hero-login", dto.LoginRequest{Username: username, Password: password}, &res)
	return &res, err
}

// HeroQuery - фильтры каталога.
type HeroQuery struct {
	Category string
	Query    string
	Counties []string
}

func (c *Client) ListHeroes(ctx context.Context, q HeroQuery) ([]models.Hero, error) {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if len(q.Counties) > 0 {
		v.Set("counties", strings.Join(q.Counties, ","))
	}
	path := "/heroes"
	if enc := v.Encode(); enc != "" {
		path += "?" + enc
	}
	var res []models.Hero
	err := c.do(ctx, http.MethodGet, path, nil, &res)
	return res, err
}

func (c *Client) GetHero(ctx context.Context, id string) (*models.Hero, error) {
	var res models.Hero
	if err := c.do(ctx, http.MethodGet, "/heroes/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateHero(ctx context.Context, payload dto.HeroPayload) (*models.Hero, error) {
	var res models.Hero
	if err := c.do(ctx, http.MethodPost, "/heroes", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateHero(ctx context.Context, id string, payload dto.HeroPayload) (*models.Hero, error) {
	var res models.Hero
	if err := c.do(ctx, http.MethodPut, "/heroes/"+url.PathEscape(id), payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteHero(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/heroes/"+url.PathEscape(id), nil, nil)
}

// CreateRequest отправляет контактную форму.
func (c *Client) CreateRequest(ctx context.Context, form missiondto.CreateRequestRequest) (*missiondto.MissionResponse, error) {
	var res missiondto.MissionResponse
	if err := c.do(ctx, http.MethodPost, "/request", form, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRequests - все заявки (администратор).
func (c *Client) ListRequests(ctx context.Context) ([]missiondto.MissionResponse, error) {
	var res []missiondto.MissionResponse
	err := c.do(ctx, http.MethodGet, "/request", nil, &res)
	return res, err
}

// MyMissions - заявки героя. Пустой view - все.
func (c *Client) MyMissions(ctx context.Context, view string) ([]missiondto.MissionResponse, error) {
	path := "/hero/my-missions"
	if view != "" {
		path += "?view=" + url.QueryEscape(view)
	}
	var res []missiondto.MissionResponse
	err := c.do(ctx, http.MethodGet, path, nil, &res)
	return res, err
}

// UpdateMissionStatus - переход статуса героем, photo пустой для переходов без фото.
func (c *Client) UpdateMissionStatus(ctx context.Context, id, status, photo string) (*missiondto.MissionResponse, error) {
	body := missiondto.UpdateMissionStatusRequest{Status: status}
	if photo != "" {
		body.Photo = &photo
	}
	var res missiondto.MissionResponse
	if err := c.do(ctx, http.MethodPut, "/missions/"+url.PathEscape(id)+"/status", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AdminUpdateStatus - администратор меняет статус без фото.
func (c *Client) AdminUpdateStatus(ctx context.Context, id, status string) (*missiondto.MissionResponse, error) {
	var res missiondto.MissionResponse
	body := missiondto.UpdateMissionStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPut, "/admin/requests/"+url.PathEscape(id)+"/status", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Dossier скачивает HTML досье заявки.
func (c *Client) Dossier(ctx context.Context, id string) ([]byte, error) {
	var html []byte
	err := c.do(ctx, http.MethodGet, "/admin/requests/"+url.PathEscape(id)+"/dossier", nil, &html)
	return html, err
}

func (c *Client) CreateReview(ctx context.Context, req dto.CreateReviewRequest) (*models.Review, error) {
	var res models.Review
	if err := c.do(ctx, http.MethodPost, "/reviews", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ApplyHero(ctx context.Context, req dto.ApplyHeroRequest) error {
	return c.do(ctx, http.MethodPost, "/apply-hero", req, nil)
}

func (c *Client) ListApplications(ctx context.Context) ([]models.Application, error) {
	var res []models.Application
	err := c.do(ctx, http.MethodGet, "/admin/applications", nil, &res)
	return res, err
}

func (c *Client) RejectApplication(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/applications/"+url.PathEscape(id), nil, nil)
}

func (c *Client) AcceptApplication(ctx context.Context, id string) (*dto.ApplicationAcceptResponse, error) {
	var res dto.ApplicationAcceptResponse
	if err := c.do(ctx, http.MethodPost, "/admin/applications/"+url.PathEscape(id)+"/accept", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var res []string
	err := c.do(ctx, http.MethodGet, "/categories", nil, &res)
	return res, err
}

func (c *Client) AddCategory(ctx context.Context, name string) ([]string, error) {
	var res []string
	err := c.do(ctx, http.MethodPost, "/categories", dto.CategoryRequest{Name: name}, &res)
	return res, err
}

func (c *Client) RemoveCategory(ctx context.Context, name string) ([]string, error) {
	var res []string
	err := c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(name), nil, &res)
	return res, err
}

// SubmitOnboarding - анкета героя. Ответ сервера {success, error}.
func (c *Client) SubmitOnboarding(ctx context.Context, req dto.OnboardingRequest) error {
	var res dto.OnboardingResponse
	if err := c.do(ctx, http.MethodPost, "/hero/public-submit-update", req, &res); err != nil {
		return err
	}
	if !res.Success {
		return &APIError{Status: http.StatusOK, Message: res.Error}
	}
	return nil
}
