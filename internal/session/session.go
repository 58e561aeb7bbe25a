// session — регистрация, вход и хранение токена между запусками клиента.
//
// Токен не проверяется и не обновляется: он только сохраняется после входа и
// подставляется в исходящие запросы.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/pribylovaa/go-burrow/internal/models"
	"github.com/pribylovaa/go-burrow/pkg/log"
	"github.com/pribylovaa/go-burrow/pkg/redact"
)

// RegisteredMessage — текст по умолчанию, если бэкенд не прислал свой.
const RegisteredMessage = "User registered successfully! You can now sign in."

var (
	// ErrPasswordMismatch — пароль и подтверждение не совпадают.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrNoToken — бэкенд ответил успехом, но без токена.
	ErrNoToken = errors.New("login successful, but no token received")
	// ErrInvalidEmail — email не проходит разбор.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidArgument — пустые обязательные поля.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoSession — сохранённого токена нет.
	ErrNoSession = errors.New("not logged in")
)

// Authenticator — эндпоинты учётных записей бэкенда.
type Authenticator interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
}

// TokenStore — хранилище токена. Load возвращает ErrNoSession, если токена нет.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type Service struct {
	auth  Authenticator
	store TokenStore
}

func New(auth Authenticator, store TokenStore) *Service {
	return &Service{auth: auth, store: store}
}

// Register регистрирует пользователя и возвращает сообщение бэкенда.
//
// Валидация до запроса:
//   - username, email, password непустые (после TrimSpace для username/email);
//   - email разбирается net/mail;
//   - password совпадает с confirm.
func (s *Service) Register(ctx context.Context, username, email, password, confirm string) (string, error) {
	const op = "session.Register"

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if password != confirm {
		return "", fmt.Errorf("%s: %w", op, ErrPasswordMismatch)
	}

	lg := log.From(ctx).With(slog.String("op", op), slog.String("email", redact.Email(email)))

	resp, err := s.auth.Register(ctx, models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		lg.Warn("register_failed", slog.String("err", err.Error()))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("registered")

	if strings.TrimSpace(resp.Message) == "" {
		return RegisteredMessage, nil
	}

	return resp.Message, nil
}

// Login выполняет вход и сохраняет токен. Возвращает то, что удалось прочитать
// из токена без проверки подписи.
func (s *Service) Login(ctx context.Context, email, password string) (Info, error) {
	const op = "session.Login"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Info{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	lg := log.From(ctx).With(slog.String("op", op), slog.String("email", redact.Email(email)))

	resp, err := s.auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		lg.Warn("login_failed", slog.String("err", err.Error()))
		return Info{}, fmt.Errorf("%s: %w", op, err)
	}

	if resp.Token == "" {
		lg.Warn("login_without_token")
		return Info{}, fmt.Errorf("%s: %w", op, ErrNoToken)
	}

	if err := s.store.Save(ctx, resp.Token); err != nil {
		return Info{}, fmt.Errorf("%s: save: %w", op, err)
	}

	lg.Info("logged_in", slog.String("token", redact.Token(resp.Token)))

	info, err := Inspect(resp.Token)
	if err != nil {
		// Непрозрачный токен — нормальная ситуация: просто нечего показать.
		lg.Debug("token_not_jwt", slog.String("err", err.Error()))
		return Info{}, nil
	}

	return info, nil
}

// Logout удаляет сохранённый токен. Отсутствие токена — не ошибка.
func (s *Service) Logout(ctx context.Context) error {
	const op = "session.Logout"

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("logged_out")

	return nil
}

// Token — сохранённый токен (ErrNoSession, если входа не было).
// Подходит как api.TokenSource.
func (s *Service) Token(ctx context.Context) (string, error) {
	const op = "session.Token"

	tok, err := s.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return tok, nil
}

// Current — сведения о текущей сессии.
func (s *Service) Current(ctx context.Context) (Info, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return Info{}, err
	}

	return Inspect(tok)
}
