package authmw

import (
	"context"
	"fmt"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/log"
)

// Provisioner mirrors roster-created accounts into an identity provider.
type Provisioner interface {
	ProvisionAccount(ctx context.Context, account *entity.Account, user *entity.User) (string, error)
	EnableAccount(ctx context.Context, keycloakID string) error
}

// NoopProvisioner is used when no identity provider is configured.
type NoopProvisioner struct{}

func (NoopProvisioner) ProvisionAccount(context.Context, *entity.Account, *entity.User) (string, error) {
	return "", nil
}

func (NoopProvisioner) EnableAccount(context.Context, string) error { return nil }

type Service struct {
	Client       *gocloak.GoCloak
	Realm        string
	clientID     string
	clientSecret string
}

var _ Provisioner = (*Service)(nil)

func NewService(baseURL, realm, clientID, clientSecret string) (*Service, error) {
	s := &Service{
		Client:       gocloak.NewClient("http://" + baseURL),
		Realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
	}

	if err := s.selfTest(); err != nil {
		return nil, err
	}

	return s, nil
}

// JWKSURL is the realm's certificate endpoint for a Keycloak at baseURL.
func JWKSURL(baseURL, realm string) string {
	return fmt.Sprintf("http://%s/realms/%s/protocol/openid-connect/certs", baseURL, realm)
}

func (s *Service) selfTest() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	jwt, err := s.LoginAdmin(ctx)
	if err != nil {
		return fmt.Errorf("keycloak auth failed: %w", err)
	}

	_, err = s.Client.GetRealm(ctx, jwt.AccessToken, s.Realm)
	if err != nil {
		return fmt.Errorf("keycloak permission check failed: %w", err)
	}

	return nil
}

func (s *Service) LoginAdmin(ctx context.Context) (*gocloak.JWT, error) {
	return s.Client.LoginClient(
		ctx,
		s.clientID,
		s.clientSecret,
		s.Realm,
	)
}

// ProvisionAccount creates a disabled Keycloak user for an unapproved
// account and places it in the group named after the account role.
func (s *Service) ProvisionAccount(ctx context.Context, account *entity.Account, user *entity.User) (string, error) {
	jwt, err := s.LoginAdmin(ctx)
	if err != nil {
		return "", fmt.Errorf("keycloak login: %w", err)
	}

	kcUser := gocloak.User{
		Username:  gocloak.StringP(user.Identifier),
		Email:     gocloak.StringP(account.Email),
		Enabled:   gocloak.BoolP(account.IsApproved),
		FirstName: gocloak.StringP(user.Name),
		Attributes: &map[string][]string{
			"account_id": {account.ID.Hex()},
		},
	}

	id, err := s.Client.CreateUser(ctx, jwt.AccessToken, s.Realm, kcUser)
	if err != nil {
		return "", fmt.Errorf("creating keycloak user: %w", err)
	}

	if err := s.AddUserToGroup(ctx, jwt.AccessToken, id, string(account.Role)); err != nil {
		log.Logger.Warn("keycloak group assignment failed",
			zap.String("identifier", user.Identifier),
			zap.String("role", string(account.Role)),
			zap.Error(err),
		)
	}

	return id, nil
}

func (s *Service) EnableAccount(ctx context.Context, keycloakID string) error {
	jwt, err := s.LoginAdmin(ctx)
	if err != nil {
		return fmt.Errorf("keycloak login: %w", err)
	}
	return s.SetUserEnabled(ctx, jwt.AccessToken, keycloakID, true)
}

func (s *Service) AddUserToGroup(
	ctx context.Context,
	token, userID, groupName string,
) error {

	groups, err := s.Client.GetGroups(ctx, token, s.Realm, gocloak.GetGroupsParams{
		Search: gocloak.StringP(groupName),
	})
	if err != nil {
		return err
	}

	var groupID string
	for _, g := range groups {
		if g.Name != nil && *g.Name == groupName {
			groupID = *g.ID
			break
		}
	}

	if groupID == "" {
		return fmt.Errorf("group not found: %s", groupName)
	}

	return s.Client.AddUserToGroup(ctx, token, s.Realm, userID, groupID)
}

func (s *Service) SetUserEnabled(
	ctx context.Context,
	token, userID string,
	enabled bool,
) error {

	user, err := s.Client.GetUserByID(ctx, token, s.Realm, userID)
	if err != nil {
		return err
	}

	user.Enabled = gocloak.BoolP(enabled)

	return s.Client.UpdateUser(ctx, token, s.Realm, *user)
}
