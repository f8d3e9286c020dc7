package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"bandmate-api/core/cache"
	"bandmate-api/core/config"
	"bandmate-api/core/constants"
	"bandmate-api/core/errors"
	"bandmate-api/core/logger"
	"bandmate-api/core/utils"
	"bandmate-api/modules/auth/dto"
	"bandmate-api/modules/auth/entity"
	"bandmate-api/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	repo  repository.UserRepositoryInterface
	cache cache.CacheInterface
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, *errors.AppError)
	Logout(ctx context.Context, accessToken string) *errors.AppError
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	GoogleLoginURL(ctx context.Context) (*dto.GoogleLoginURLResponse, *errors.AppError)
	GoogleCallback(ctx context.Context, req *dto.GoogleCallbackRequest) (*dto.TokenResponse, *errors.AppError)
}

func NewAuthService(repo repository.UserRepositoryInterface, c cache.CacheInterface) AuthServiceInterface {
	return &AuthService{repo: repo, cache: c}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, *errors.AppError) {
	if req.Name == "" || len(req.Password) < 8 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name required and password must be at least 8 characters", nil)
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid email address", nil)
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: &hash,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create user", err)
	}

	return s.issueTokens(created)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil || user.PasswordHash == nil || !utils.ComparePassword(*user.PasswordHash, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, *errors.AppError) {
	claims, err := utils.ValidateAndParseToken(req.RefreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrTokenExpired, "invalid refresh token", err)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "wrong token scope", nil)
	}

	blacklisted, err := s.cache.IsTokenBlacklisted(ctx, req.RefreshToken)
	if err == nil && blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token has been revoked", nil)
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil || user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user no longer exists", err)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Logout(ctx context.Context, accessToken string) *errors.AppError {
	if err := s.cache.BlacklistToken(ctx, accessToken, constants.AccessTokenDuration); err != nil {
		logger.Error("AuthService:Logout:BlacklistToken", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to revoke token", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// ===================== Google sign-in =====================

func googleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

func (s *AuthService) GoogleLoginURL(ctx context.Context) (*dto.GoogleLoginURLResponse, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok || cfg.Google.ClientID == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "google sign-in not configured", nil)
	}

	state := utils.GenerateRandomString(24)
	url := googleOAuthConfig(cfg).AuthCodeURL(state, oauth2.AccessTypeOffline)
	return &dto.GoogleLoginURLResponse{URL: url}, nil
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *AuthService) GoogleCallback(ctx context.Context, req *dto.GoogleCallbackRequest) (*dto.TokenResponse, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok || cfg.Google.ClientID == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "google sign-in not configured", nil)
	}
	if req.Code == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "missing authorization code", nil)
	}

	oauthConfig := googleOAuthConfig(cfg)
	token, err := oauthConfig.Exchange(ctx, req.Code)
	if err != nil {
		logger.Error("AuthService:GoogleCallback:Exchange", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	info, err := fetchGoogleUserInfo(ctx, oauthConfig, token)
	if err != nil {
		logger.Error("AuthService:GoogleCallback:UserInfo", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to fetch google profile", err)
	}

	user, err := s.repo.GetByGoogleID(ctx, info.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		// Link to an existing account by email, or create a fresh one
		user, err = s.repo.GetByEmail(ctx, info.Email)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
		}
		if user != nil {
			user.GoogleID = &info.ID
			if user.AvatarURL == nil && info.Picture != "" {
				user.AvatarURL = &info.Picture
			}
			if err = s.repo.Update(ctx, user); err != nil {
				return nil, errors.NewAppError(errors.ErrUpdateFailed, "failed to link google account", err)
			}
		} else {
			newUser := &entity.User{
				Name:     info.Name,
				Email:    strings.ToLower(info.Email),
				GoogleID: &info.ID,
			}
			if info.Picture != "" {
				newUser.AvatarURL = &info.Picture
			}
			user, err = s.repo.Create(ctx, newUser)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create user", err)
			}
		}
	}

	return s.issueTokens(user)
}

func fetchGoogleUserInfo(ctx context.Context, oauthConfig *oauth2.Config, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("AuthService:fetchGoogleUserInfo:Status", "status", resp.StatusCode, "body", string(body))
		return nil, errors.NewAppError(errors.ErrInternalServer, "unexpected userinfo response", nil)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*dto.TokenResponse, *errors.AppError) {
	accessToken, err := utils.GenerateToken(user.ID, &user.Email, &user.Name, user.IsAdmin, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}
	refreshToken, err := utils.GenerateToken(user.ID, &user.Email, &user.Name, user.IsAdmin, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.ToUserResponse(user),
	}, nil
}
