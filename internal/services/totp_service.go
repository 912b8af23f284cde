package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"

	"github.com/milan1710/mern-ayurveda/internal/models"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "Ayurveda Admin"

var (
	ErrNoTOTPSecret   = errors.New("2FA setup not started")
	ErrInvalidTOTP    = errors.New("invalid authenticator code")
	ErrTOTPNotEnabled = errors.New("2FA not enabled")
)

// TOTPSetupResponse carries the provisioning secret and QR code for the
// authenticator app
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// TOTPService implements optional authenticator-app 2FA for operator accounts
type TOTPService struct {
	Users UserStore
}

func NewTOTPService(users UserStore) *TOTPService {
	return &TOTPService{Users: users}
}

// GenerateSetup creates a new TOTP secret and QR code for the user.
// 2FA stays disabled until the first code is verified.
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.User) (*TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	user.TOTPSecret = key.Secret()
	user.TOTPEnabled = false
	if err := s.Users.Update(ctx, user); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable checks the first code from the authenticator and turns 2FA on
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return ErrNoTOTPSecret
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return ErrInvalidTOTP
	}

	user.TOTPEnabled = true
	return s.Users.Update(ctx, user)
}

// Verify validates a login-time code for an account with 2FA enabled
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) (*models.User, error) {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.TOTPEnabled || user.TOTPSecret == "" {
		return nil, ErrTOTPNotEnabled
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return nil, ErrInvalidTOTP
	}
	return user, nil
}

// Disable turns 2FA off after a final code check
func (s *TOTPService) Disable(ctx context.Context, userID int, code string) error {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TOTPEnabled {
		return ErrTOTPNotEnabled
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return ErrInvalidTOTP
	}

	user.TOTPEnabled = false
	user.TOTPSecret = ""
	return s.Users.Update(ctx, user)
}
