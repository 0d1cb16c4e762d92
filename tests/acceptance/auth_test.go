package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dkoval/auth-backend/internal/dto"
)

const testUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// postJSON posts a payload with a browser-like User-Agent so the server can
// compute a device fingerprint.
func (s *Suite) postJSON(path string, payload interface{}) *http.Response {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+path, bytes.NewBuffer(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testUserAgent)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) register(email string) {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:            "ana",
		Email:           email,
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
}

// registerAndVerify walks the full challenge round trip: register, log in to
// trigger the verification email, then confirm with the mailed token.
func (s *Suite) registerAndVerify(email string) {
	s.register(email)

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: "Password123!",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	token := s.Mailer.lastToken()
	s.Require().NotEmpty(token)

	verifyResp := s.postJSON("/api/v1/auth/verify-email", dto.VerifyEmailRequest{
		Email: email,
		Token: token,
	})
	defer verifyResp.Body.Close()
	s.Require().Equal(http.StatusOK, verifyResp.StatusCode)
}

func (s *Suite) TestRegister_Success() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:            "ana",
		Email:           "test@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var successResp dto.SuccessResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&successResp))
	s.Equal("register success", successResp.Message)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.register("duplicate@example.com")

	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:            "ana2",
		Email:           "duplicate@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:            "ana",
		Email:           "invalid-email",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_WeakPassword() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:            "ana",
		Email:           "weak@example.com",
		Password:        "onlyletters",
		ConfirmPassword: "onlyletters",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_UnverifiedGetsChallenge() {
	s.register("challenge@example.com")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "challenge@example.com",
		Password: "Password123!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var loginResp dto.LoginResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&loginResp))
	s.True(loginResp.NeedVerification)
	s.Empty(loginResp.AccessToken, "challenge must not carry tokens")
	s.Empty(resp.Cookies(), "challenge must not set a refresh cookie")

	s.Equal(1, s.Mailer.count())
	s.NotEmpty(s.Mailer.lastToken())
}

func (s *Suite) TestLogin_InvalidCredentials() {
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "Password123!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("wrongpass@example.com")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword1!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogin_MissingUserAgent() {
	s.register("noua@example.com")

	body, _ := json.Marshal(dto.LoginRequest{
		Email:    "noua@example.com",
		Password: "Password123!",
	})
	req, _ := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	// Explicitly strip the default Go client User-Agent.
	req.Header.Set("User-Agent", "")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestVerifyEmail_InvalidToken() {
	s.register("badtoken@example.com")

	resp := s.postJSON("/api/v1/auth/verify-email", dto.VerifyEmailRequest{
		Email: "badtoken@example.com",
		Token: "00000000000000000000000000000000",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestCompleteVerificationFlow() {
	email := "complete@example.com"
	s.registerAndVerify(email)

	// The verifying device is now trusted, so login grants a session.
	loginResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: "Password123!",
	})
	defer loginResp.Body.Close()
	s.Require().Equal(http.StatusOK, loginResp.StatusCode)

	var login dto.LoginResponse
	s.Require().NoError(json.NewDecoder(loginResp.Body).Decode(&login))
	s.False(login.NeedVerification)
	s.NotEmpty(login.AccessToken)
	s.Equal("Bearer", login.TokenType)
	s.Require().NotNil(login.Device)

	cookies := loginResp.Cookies()
	s.Require().NotEmpty(cookies, "authenticated login must set a refresh cookie")

	// Profile reflects the verified state.
	meReq, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/auth/me", nil)
	meReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", login.AccessToken))
	meResp, err := http.DefaultClient.Do(meReq)
	s.Require().NoError(err)
	defer meResp.Body.Close()
	s.Equal(http.StatusOK, meResp.StatusCode)

	var user dto.UserResponse
	s.Require().NoError(json.NewDecoder(meResp.Body).Decode(&user))
	s.Equal(email, user.Email)
	s.True(user.IsVerified)
	s.Equal("active", user.Status)

	// Logout clears the session.
	logoutReq, _ := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/logout", nil)
	logoutReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", login.AccessToken))
	for _, cookie := range cookies {
		logoutReq.AddCookie(cookie)
	}
	logoutResp, err := http.DefaultClient.Do(logoutReq)
	s.Require().NoError(err)
	defer logoutResp.Body.Close()
	s.Equal(http.StatusOK, logoutResp.StatusCode)
}

func (s *Suite) TestRepeatedLogins_SameRefreshCookie() {
	email := "pinned@example.com"
	s.registerAndVerify(email)

	login := func() string {
		resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
			Email:    email,
			Password: "Password123!",
		})
		defer resp.Body.Close()
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		for _, cookie := range resp.Cookies() {
			if cookie.Name == "refresh_token" {
				return cookie.Value
			}
		}
		return ""
	}

	first := login()
	second := login()
	s.Require().NotEmpty(first)
	s.Equal(first, second, "refresh token is pinned per device")
}

func (s *Suite) TestPasswordResetFlow() {
	email := "reset@example.com"
	s.register(email)

	resp := s.postJSON("/api/v1/auth/forget-password", dto.ForgetPasswordRequest{Email: email})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	token := s.Mailer.lastToken()
	s.Require().NotEmpty(token)

	resetResp := s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Email:           email,
		Token:           token,
		NewPassword:     "Newpassword1!",
		ConfirmPassword: "Newpassword1!",
	})
	defer resetResp.Body.Close()
	s.Require().Equal(http.StatusOK, resetResp.StatusCode)

	// Old password is dead.
	oldResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: "Password123!",
	})
	defer oldResp.Body.Close()
	s.Equal(http.StatusUnauthorized, oldResp.StatusCode)

	// New password works (the account is still unverified, so this is a
	// challenge rather than a session).
	newResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    email,
		Password: "Newpassword1!",
	})
	defer newResp.Body.Close()
	s.Equal(http.StatusOK, newResp.StatusCode)
}

func (s *Suite) TestResetPassword_ReusedToken() {
	email := "reuse@example.com"
	s.register(email)

	resp := s.postJSON("/api/v1/auth/forget-password", dto.ForgetPasswordRequest{Email: email})
	resp.Body.Close()

	token := s.Mailer.lastToken()
	s.Require().NotEmpty(token)

	first := s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Email:           email,
		Token:           token,
		NewPassword:     "Newpassword1!",
		ConfirmPassword: "Newpassword1!",
	})
	first.Body.Close()
	s.Require().Equal(http.StatusOK, first.StatusCode)

	second := s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Email:           email,
		Token:           token,
		NewPassword:     "Another1!",
		ConfirmPassword: "Another1!",
	})
	defer second.Body.Close()
	s.Equal(http.StatusUnauthorized, second.StatusCode, "tokens are single use")
}

func (s *Suite) TestGetMe_NoToken() {
	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/auth/me", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_InvalidToken() {
	req, _ := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
