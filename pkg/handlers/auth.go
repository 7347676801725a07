package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/logging"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const githubUserURL = "https://api.github.com/user"

func AuthRequired(c *gin.Context) {
	if currentUser(c) == "" {
		if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
		return
	}
	c.Next()
}

// EditorRequired gates maintenance and API routes on the edit capability.
func EditorRequired(c *gin.Context) {
	if !config.CanEdit(currentUser(c)) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	c.Next()
}

func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Login"})
}

func (h *Handler) GithubLogin(c *gin.Context) {
	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set(sessionState, state)
	session.Save()

	url := config.OauthConf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *Handler) AuthCallback(c *gin.Context) {
	session := sessions.Default(c)
	if want, _ := session.Get(sessionState).(string); want == "" || c.Query("state") != want {
		c.String(http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	session.Delete(sessionState)

	ctx := c.Request.Context()
	token, err := config.OauthConf.Exchange(ctx, c.Query("code"))
	if err != nil {
		c.String(http.StatusInternalServerError, "OAuth Exchange Failed")
		return
	}

	login, err := fetchLogin(config.OauthConf.Client(ctx, token))
	if err != nil {
		logging.L().Warn("github user lookup failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to read GitHub user")
		return
	}

	session.Set(sessionToken, token.AccessToken)
	session.Set(sessionUser, login)
	session.Save()
	logging.L().Info("login", zap.String("user", login), zap.Bool("editor", config.CanEdit(login)))

	c.Redirect(http.StatusFound, "/admin/")
}

func fetchLogin(client *http.Client) (string, error) {
	resp, err := client.Get(githubUserURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github user: status %d", resp.StatusCode)
	}
	var user struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", err
	}
	if user.Login == "" {
		return "", fmt.Errorf("github user: empty login")
	}
	return user.Login, nil
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}
