package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultLoginPath = "/login"
	refreshPath      = "/refresh"
	defaultTimeout   = 15 * time.Second
)

// StatusError : ответ API со статусом вне 2xx
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[Client] %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[Client] %d: %s", e.StatusCode, e.Message)
}

// Client : HTTP клиент API с cookie jar. Ответ 401 на обычный запрос запускает
// одно общее обновление токена, после чего запрос повторяется ровно один раз.
// Если обновление уже успело завершиться после отправки запроса, запрос повторяется без нового.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	coordinator *RefreshCoordinator
	session     *Session
	navigator   Navigator
	loginPath   string
}

type Option func(*Client)

// WithHTTPClient : транспорт и таймауты. Если у клиента нет Jar, создается свой.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithCoordinator : общий координатор для нескольких клиентов
func WithCoordinator(coordinator *RefreshCoordinator) Option {
	return func(c *Client) {
		c.coordinator = coordinator
	}
}

func WithSession(session *Session) Option {
	return func(c *Client) {
		c.session = session
	}
}

func WithNavigator(navigator Navigator) Option {
	return func(c *Client) {
		c.navigator = navigator
	}
}

func WithLoginPath(path string) Option {
	return func(c *Client) {
		c.loginPath = path
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("[Client] некорректный базовый адрес: %w", err)
	}

	c := &Client{
		baseURL:   parsed,
		session:   NewSession(),
		loginPath: DefaultLoginPath,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("[Client] ошибка создания cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	if c.coordinator == nil {
		c.coordinator = NewRefreshCoordinator(c.onRefreshFailure)
	}

	return c, nil
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) Coordinator() *RefreshCoordinator {
	return c.coordinator
}

// Do отправляет запрос. Запросы к /login, /refresh, /reset-password и /verify-email
// возвращают 401 как есть, без попытки обновления.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	seen := c.coordinator.Generation()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[Client] ошибка запроса %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode != http.StatusUnauthorized || c.isExcluded(req.URL.Path) {
		return checkStatus(resp)
	}
	// ответ 401 больше не нужен, вместо него вернется ответ на повтор
	discard(resp)

	if err := c.coordinator.DoAfter(req.Context(), seen, c.refresh); err != nil {
		return nil, err
	}

	retry, err := replay(req)
	if err != nil {
		return nil, err
	}

	resp, err = c.http.Do(retry)
	if err != nil {
		return nil, fmt.Errorf("[Client] ошибка повторного запроса %s: %w", req.URL.Path, err)
	}
	return checkStatus(resp)
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("[Client] ошибка создания запроса: %w", err)
	}
	return c.send(req, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload := []byte("{}")
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[Client] ошибка кодирования тела запроса: %w", err)
		}
	}

	// bytes.Reader: NewRequest сам заполнит GetBody для повтора
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("[Client] ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("[Client] ошибка разбора ответа %s: %w", req.URL.Path, err)
	}
	return nil
}

// refresh : новый access токен приходит кукой, jar сохраняет его сам
func (c *Client) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(refreshPath), nil)
	if err != nil {
		return fmt.Errorf("[Client] ошибка создания запроса обновления: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("[Client] ошибка обновления токена: %w", err)
	}

	resp, err = checkStatus(resp)
	if err != nil {
		return err
	}
	discard(resp)
	return nil
}

func (c *Client) onRefreshFailure(error) {
	c.session.Clear()
	if c.navigator != nil {
		c.navigator.Navigate(c.loginPath)
	}
}

func (c *Client) isExcluded(path string) bool {
	path = strings.TrimPrefix(path, c.baseURL.Path)
	return path == DefaultLoginPath ||
		path == refreshPath ||
		strings.Contains(path, "/reset-password") ||
		strings.Contains(path, "/verify-email")
}

func (c *Client) url(path string) string {
	return c.baseURL.String() + path
}

// replay : http.Client дописывает куки из jar в заголовок исходного запроса,
// поэтому старые куки убираются, иначе уйдет просроченный token
func replay(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	retry.Header.Del("Cookie")
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("[Client] тело запроса %s нельзя отправить повторно", req.URL.Path)
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("[Client] ошибка повторного чтения тела запроса: %w", err)
	}
	retry.Body = body
	return retry, nil
}

// checkStatus : не-2xx превращается в *StatusError, тело при этом закрывается
func checkStatus(resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	statusErr := &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			statusErr.Message = body.Message
		}
		statusErr.Code = body.Code
	}
	return nil, statusErr
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
