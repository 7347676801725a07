package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var (
	AppURL     = "http://localhost:8080"
	ListenAddr = ":8080"

	RepoPath    = "./repo"
	MediaFolder = "media"
	DataDir     = ""

	// Site identity
	SiteName   = "NGO"
	CustomLogo = ""

	// URL prefixes; changing one requires a flush
	ProjectsSlug        = "projects"
	ProjectStatusSlug   = "project-status"
	ProjectCategorySlug = "project-category"
	NoticesSlug         = "notices"

	PostsPerPage = 10
	FeedTimeout  = 15 * time.Second

	// Editors lists GitHub logins allowed to edit records. Empty means every logged-in user.
	Editors []string

	SessionSecret = ""
	LogLevel      = "info"
	LogDev        = false

	// Git settings
	GitUserEmail = "bot@ngo-cms.local"
	GitUserName  = "NGO CMS Bot"
	GitBranch    = "main"
	GitRemote    = "origin"
)

var OauthConf *oauth2.Config

const AppName = "ngo-cms"

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	AppURL = strings.TrimRight(getEnv("APP_URL", "http://localhost:8080"), "/")
	ListenAddr = getEnv("LISTEN_ADDR", ":8080")
	redirectURL := getEnv("GITHUB_REDIRECT_URL", AppURL+"/auth/callback")

	RepoPath = getEnv("REPO_PATH", "./repo")
	MediaFolder = getEnv("MEDIA_FOLDER", "media")
	DataDir = getEnv("DATA_DIR", DefaultDataDir())

	SiteName = getEnv("SITE_NAME", "NGO")
	CustomLogo = getEnv("CUSTOM_LOGO", "")

	ProjectsSlug = getEnv("PROJECTS_SLUG", "projects")
	ProjectStatusSlug = getEnv("PROJECT_STATUS_SLUG", "project-status")
	ProjectCategorySlug = getEnv("PROJECT_CATEGORY_SLUG", "project-category")
	NoticesSlug = getEnv("NOTICES_SLUG", "notices")

	if pp := os.Getenv("POSTS_PER_PAGE"); pp != "" {
		if val, err := strconv.Atoi(pp); err == nil && val > 0 {
			PostsPerPage = val
		}
	}
	if ft := os.Getenv("FEED_TIMEOUT"); ft != "" {
		if val, err := time.ParseDuration(ft); err == nil {
			FeedTimeout = val
		}
	}

	Editors = splitList(os.Getenv("EDITORS"))

	SessionSecret = getEnv("SESSION_SECRET", "")
	LogLevel = getEnv("LOG_LEVEL", "info")
	LogDev = getEnv("LOG_DEV", "") == "true"

	GitUserEmail = getEnv("GIT_USER_EMAIL", "bot@ngo-cms.local")
	GitUserName = getEnv("GIT_USER_NAME", "NGO CMS Bot")
	GitBranch = getEnv("GIT_BRANCH", "main")
	GitRemote = getEnv("GIT_REMOTE", "origin")

	OauthConf = &oauth2.Config{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		Scopes:       []string{"read:user", "repo"},
		Endpoint:     github.Endpoint,
		RedirectURL:  redirectURL,
	}
}

// DefaultDataDir returns the badger directory under the XDG data home.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// ContentPath joins elem onto the content root of the repo.
func ContentPath(elem ...string) string {
	return filepath.Join(append([]string{RepoPath, "content"}, elem...)...)
}

func CanEdit(login string) bool {
	if login == "" {
		return false
	}
	if len(Editors) == 0 {
		return true
	}
	for _, e := range Editors {
		if strings.EqualFold(e, login) {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
