package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository"
	"outreachpilot/internal/vault"
)

// expiryLeeway is how long before expiry a token is refreshed, so a
// send never starts with a token about to lapse mid-request.
const expiryLeeway = 5 * time.Minute

type mailboxService struct {
	connRepo      repository.ConnectionRepository
	vault         *vault.Vault
	exchanger     TokenExchanger
	clientFactory MailboxClientFactory
	logger        *logger.Logger

	// one refresh in flight per user
	refreshLocks sync.Map
}

func NewMailboxService(
	connRepo repository.ConnectionRepository,
	v *vault.Vault,
	exchanger TokenExchanger,
	clientFactory MailboxClientFactory,
	logger *logger.Logger,
) MailboxService {
	return &mailboxService{
		connRepo:      connRepo,
		vault:         v,
		exchanger:     exchanger,
		clientFactory: clientFactory,
		logger:        logger,
	}
}

func (s *mailboxService) Connect(ctx context.Context, userID, authCode string) (*model.MailboxConnection, error) {
	token, err := s.exchanger.Exchange(ctx, authCode)
	if err != nil {
		s.logger.Error("Mailbox auth code exchange failed:", err)
		return nil, err
	}

	client, err := s.clientFactory(token.AccessToken)
	if err != nil {
		return nil, err
	}
	address, err := client.Profile(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch mailbox profile:", err)
		return nil, err
	}

	encAccess, err := s.vault.Encrypt(token.AccessToken)
	if err != nil {
		return nil, err
	}
	encRefresh, err := s.vault.Encrypt(token.RefreshToken)
	if err != nil {
		return nil, err
	}

	conn := model.NewMailboxConnection(userID, encAccess, encRefresh, address, token.ExpiresAt)
	if err := s.connRepo.Save(ctx, conn); err != nil {
		s.logger.Error("Failed to save mailbox connection:", err)
		return nil, err
	}
	s.logger.Info("Connected mailbox", address, "for user:", userID)
	return conn, nil
}

// GetValidAccessToken returns a plaintext access token that is good for
// at least the leeway window, refreshing it first when needed. Stored
// credentials that cannot be decrypted or that the provider rejects are
// deleted so the user is asked to reconnect instead of looping on a
// dead grant.
func (s *mailboxService) GetValidAccessToken(ctx context.Context, userID string) (string, error) {
	lock, _ := s.refreshLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	conn, err := s.connRepo.FindByUserID(ctx, userID)
	if err != nil {
		return "", ErrNoMailbox
	}

	accessToken, err := s.vault.Decrypt(conn.EncryptedAccessToken)
	if err != nil {
		return "", s.invalidate(ctx, userID, "access token unreadable", err)
	}

	if time.Until(conn.ExpiresAt) > expiryLeeway {
		return accessToken, nil
	}

	refreshToken, err := s.vault.Decrypt(conn.EncryptedRefreshToken)
	if err != nil {
		return "", s.invalidate(ctx, userID, "refresh token unreadable", err)
	}

	token, err := s.exchanger.Refresh(ctx, refreshToken)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			// The grant itself was revoked or expired.
			return "", s.invalidate(ctx, userID, "refresh rejected", err)
		}
		s.logger.Error("Token refresh failed:", err)
		return "", err
	}

	encAccess, err := s.vault.Encrypt(token.AccessToken)
	if err != nil {
		return "", err
	}
	encRefresh, err := s.vault.Encrypt(token.RefreshToken)
	if err != nil {
		return "", err
	}

	conn.EncryptedAccessToken = encAccess
	conn.EncryptedRefreshToken = encRefresh
	conn.ExpiresAt = token.ExpiresAt
	conn.UpdatedAt = time.Now()
	if err := s.connRepo.Save(ctx, conn); err != nil {
		s.logger.Error("Failed to save refreshed tokens:", err)
		return "", err
	}

	s.logger.Info("Refreshed mailbox token for user:", userID)
	return token.AccessToken, nil
}

func (s *mailboxService) invalidate(ctx context.Context, userID, reason string, cause error) error {
	s.logger.Warn("Invalidating mailbox connection for user", userID+":", reason, cause)
	if err := s.connRepo.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to delete mailbox connection:", err)
	}
	return errors.Join(ErrReauthRequired, cause)
}

func (s *mailboxService) Connection(ctx context.Context, userID string) (*model.MailboxConnection, error) {
	conn, err := s.connRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, ErrNoMailbox
	}
	return conn, nil
}

// Disconnect is idempotent: disconnecting a user without a connection
// succeeds. The user's refresh lock is dropped with the connection;
// a reconnect recreates it on first use.
func (s *mailboxService) Disconnect(ctx context.Context, userID string) error {
	defer s.refreshLocks.Delete(userID)
	if _, err := s.connRepo.FindByUserID(ctx, userID); err != nil {
		return nil
	}
	if err := s.connRepo.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to disconnect mailbox:", err)
		return err
	}
	s.logger.Info("Disconnected mailbox for user:", userID)
	return nil
}
