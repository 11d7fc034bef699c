// Package history keeps a git log of the data directory. After each save
// the changed files are committed with a message describing the mutation.
package history

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"tomato/internal/fsutil"
	"tomato/internal/storage"
)

// Config holds the history section of the config file.
type Config struct {
	Enabled       bool   `yaml:"enabled"`
	CommitMessage string `yaml:"commit_message"` // "auto" or a fixed message
}

// DefaultConfig leaves history off.
func DefaultConfig() Config {
	return Config{
		Enabled:       false,
		CommitMessage: "auto",
	}
}

// Status summarizes the repository.
type Status struct {
	IsRepo       bool
	HasChanges   bool
	Commits      int
	LastCommitAt *time.Time
}

// Commit is one entry of the history log.
type Commit struct {
	Hash    string
	When    time.Time
	Subject string
}

const (
	defaultGitTimeout = 10 * time.Second
	commitGitTimeout  = 15 * time.Second
	debounceDuration  = 2 * time.Second
)

const gitignore = `# tomato data history
*.bak
*.corrupt.*
*.tmp-*
*.log
*.db-journal
*.db-wal
*.db-shm
`

// Recorder commits the data directory after saves, debounced so a burst of
// saves becomes one commit.
type Recorder struct {
	dataDir string
	cfg     Config
	logger  *log.Logger

	mu       sync.Mutex
	pending  []storage.SaveContext
	timer    *time.Timer
	debounce time.Duration

	// Serializes git invocations to avoid index lock conflicts.
	opMu sync.Mutex
}

// New returns a recorder for dataDir. A nil logger discards output.
func New(dataDir string, cfg Config, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Recorder{
		dataDir:  dataDir,
		cfg:      cfg,
		logger:   logger,
		debounce: debounceDuration,
	}
}

// IsGitInstalled reports whether git is on PATH.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether the data directory is a git repository.
func (r *Recorder) IsRepo() bool {
	info, err := os.Stat(filepath.Join(r.dataDir, ".git"))
	return err == nil && info.IsDir()
}

// Init creates the repository with an ignore file and a first commit of
// whatever data already exists.
func (r *Recorder) Init() error {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if !IsGitInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if err := os.MkdirAll(r.dataDir, 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	if _, err := r.git(commitGitTimeout, "init"); err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(r.dataDir, ".gitignore"), []byte(gitignore), 0600); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	if _, err := r.git(defaultGitTimeout, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	if _, err := r.git(commitGitTimeout, "-c", "commit.gpgsign=false", "commit", "-m", "Initialize tomato data history"); err != nil {
		if !isNothingToCommit(err) {
			return fmt.Errorf("failed to create initial commit: %w", err)
		}
	}
	return nil
}

// Status inspects the repository.
func (r *Recorder) Status() (*Status, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	st := &Status{IsRepo: r.IsRepo()}
	if !st.IsRepo {
		return st, nil
	}

	if out, err := r.git(defaultGitTimeout, "status", "--porcelain"); err == nil {
		st.HasChanges = strings.TrimSpace(out) != ""
	}
	if out, err := r.git(defaultGitTimeout, "rev-list", "--count", "HEAD"); err == nil {
		st.Commits, _ = strconv.Atoi(strings.TrimSpace(out))
	}
	if out, err := r.git(defaultGitTimeout, "log", "-1", "--format=%ct"); err == nil {
		if secs, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64); err == nil {
			t := time.Unix(secs, 0)
			st.LastCommitAt = &t
		}
	}
	return st, nil
}

// Log returns up to n commits, newest first.
func (r *Recorder) Log(n int) ([]Commit, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if !r.IsRepo() {
		return nil, fmt.Errorf("not a git repository - run 'tomato history init' first")
	}
	out, err := r.git(defaultGitTimeout, "log", "-n", strconv.Itoa(n), "--format=%h%x1f%ct%x1f%s")
	if err != nil {
		return nil, err
	}

	var commits []Commit
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Split(line, "\x1f")
		if len(parts) != 3 {
			continue
		}
		secs, _ := strconv.ParseInt(parts[1], 10, 64)
		commits = append(commits, Commit{Hash: parts[0], When: time.Unix(secs, 0), Subject: parts[2]})
	}
	return commits, nil
}

// OnSaved queues a commit for a completed save. It is safe to call from
// the storage writer goroutine.
func (r *Recorder) OnSaved(ctx storage.SaveContext) {
	if !r.cfg.Enabled || !r.IsRepo() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, ctx)
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.flush)
}

// Flush commits pending saves immediately.
func (r *Recorder) Flush() {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()

	r.flush()
}

func (r *Recorder) flush() {
	r.mu.Lock()
	contexts := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(contexts) == 0 {
		return
	}
	if err := r.commit(r.message(contexts)); err != nil {
		r.logger.Printf("history: %v", err)
	}
}

func (r *Recorder) commit(message string) error {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if !r.IsRepo() {
		return fmt.Errorf("not a git repository - run 'tomato history init' first")
	}
	if _, err := r.git(defaultGitTimeout, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}

	staged, err := r.git(defaultGitTimeout, "diff", "--cached", "--name-only")
	if err != nil {
		return fmt.Errorf("failed to check staged changes: %w", err)
	}
	if strings.TrimSpace(staged) == "" {
		return nil
	}

	if _, err := r.git(commitGitTimeout, "-c", "commit.gpgsign=false", "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// message builds the commit subject for a batch of saves.
func (r *Recorder) message(contexts []storage.SaveContext) string {
	if r.cfg.CommitMessage != "" && r.cfg.CommitMessage != "auto" {
		return r.cfg.CommitMessage
	}
	if len(contexts) == 1 {
		return contexts[0].Message()
	}

	first := contexts[0]
	for _, c := range contexts[1:] {
		if c.Operation != first.Operation || c.ItemType != first.ItemType {
			return fmt.Sprintf("Update: %d changes", len(contexts))
		}
	}
	if first.Operation == "" {
		return contexts[len(contexts)-1].Message()
	}
	verb := strings.ToUpper(first.Operation[:1]) + first.Operation[1:]
	return fmt.Sprintf("%s %d %ss", verb, len(contexts), first.ItemType)
}

func (r *Recorder) git(timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dataDir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.Stdin = bytes.NewReader(nil)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("git %s timed out after %s", strings.Join(args, " "), timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s", msg)
	}
	return stdout.String(), nil
}

func isNothingToCommit(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "nothing to commit") ||
		strings.Contains(msg, "nothing added to commit")
}
