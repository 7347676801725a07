package services

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/logging"

	"go.uber.org/zap"
)

// remote describes how to reach config.GitRemote from dir. authURL is empty
// when the remote name can be used as is.
type remote struct {
	plainURL string
	authURL  string
	token    string
}

// resolveRemote embeds token into http(s) remotes. ssh and local remotes
// carry their own credentials and are left untouched.
func resolveRemote(dir, token string) (remote, error) {
	cmd := exec.Command("git", "remote", "get-url", config.GitRemote)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return remote{}, fmt.Errorf("remote %q: %w", config.GitRemote, err)
	}
	r := remote{plainURL: strings.TrimSpace(string(out))}
	if token == "" {
		return r, nil
	}
	u, err := url.Parse(r.plainURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return r, nil
	}
	u.User = url.UserPassword("oauth2", token)
	r.authURL = u.String()
	r.token = token
	return r, nil
}

// redact hides the credentials of r in git output.
func (r remote) redact(output string) string {
	if r.authURL == "" {
		return output
	}
	output = strings.ReplaceAll(output, r.authURL, r.plainURL)
	return strings.ReplaceAll(output, r.token, "***")
}

// runGitRemote runs git in dir, swapping the remote name for its
// authenticated URL when one applies. The output is always redacted.
func runGitRemote(dir, token string, args ...string) (string, error) {
	r, err := resolveRemote(dir, token)
	if err != nil {
		return "Failed to get remote url", err
	}
	argv := make([]string, len(args))
	copy(argv, args)
	if r.authURL != "" {
		for i, v := range argv {
			if v == config.GitRemote {
				argv[i] = r.authURL
			}
		}
	}
	cmd := exec.Command("git", argv...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return r.redact(string(out)), err
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// SyncRepo pulls the content repo and drops the index on success.
func SyncRepo(token string, idx *Index) (string, error) {
	log, err := runGitRemote(config.RepoPath, token, "pull", "--no-rebase", config.GitRemote, config.GitBranch)
	if err != nil {
		logging.L().Warn("git pull failed", zap.String("remote", config.GitRemote), zap.Error(err))
		return log, err
	}
	idx.InvalidateCache()
	return log, nil
}

// PublishRepo commits content and media changes, if any, and pushes the branch.
func PublishRepo(token string) (string, error) {
	var paths []string
	for _, p := range []string{"content", config.MediaFolder} {
		if _, err := os.Stat(filepath.Join(config.RepoPath, p)); err == nil {
			paths = append(paths, p)
		}
	}
	var log strings.Builder
	if len(paths) > 0 {
		out, err := runGit(config.RepoPath, append([]string{"add", "--"}, paths...)...)
		log.WriteString(out)
		if err != nil {
			return log.String(), err
		}
	}

	// diff --quiet exits 1 when something is staged.
	if _, err := runGit(config.RepoPath, "diff", "--cached", "--quiet"); err != nil {
		msg := fmt.Sprintf("Update via NGO CMS: %s", time.Now().Format("2006-01-02 15:04:05"))
		out, err := runGit(config.RepoPath,
			"-c", "user.email="+config.GitUserEmail,
			"-c", "user.name="+config.GitUserName,
			"commit", "-m", msg)
		log.WriteString(out)
		if err != nil {
			return log.String(), err
		}
	}

	out, err := runGitRemote(config.RepoPath, token, "push", config.GitRemote, config.GitBranch)
	log.WriteString(out)
	if err != nil {
		logging.L().Warn("git push failed", zap.String("remote", config.GitRemote), zap.Error(err))
	}
	return log.String(), err
}
