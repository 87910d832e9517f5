package releaseflow

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// memRepo is an in-memory repository for building commit graphs in tests.
type memRepo struct {
	t    *testing.T
	repo *git.Repository
	fs   billy.Filesystem
	n    int
}

func newMemRepo(t *testing.T) *memRepo {
	t.Helper()
	fs := memfs.New()
	repo, err := git.Init(memory.NewStorage(), fs)
	if err != nil {
		t.Fatalf("git init failed: %v", err)
	}
	return &memRepo{t: t, repo: repo, fs: fs}
}

func (r *memRepo) signature() *object.Signature {
	return &object.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  time.Unix(1700000000+int64(r.n)*60, 0),
	}
}

// commit records msg on top of HEAD, or on top of parents when given.
func (r *memRepo) commit(msg string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	r.n++
	f, err := r.fs.Create("CHANGES")
	if err != nil {
		r.t.Fatalf("create file: %v", err)
	}
	fmt.Fprintf(f, "change %d\n", r.n)
	if err := f.Close(); err != nil {
		r.t.Fatalf("close file: %v", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("CHANGES"); err != nil {
		r.t.Fatalf("git add failed: %v", err)
	}
	opts := &git.CommitOptions{Author: r.signature()}
	if len(parents) > 0 {
		opts.Parents = parents
	}
	hash, err := wt.Commit(msg, opts)
	if err != nil {
		r.t.Fatalf("git commit %q failed: %v", msg, err)
	}
	return hash
}

func (r *memRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	if _, err := r.repo.CreateTag(name, hash, nil); err != nil {
		r.t.Fatalf("git tag %s failed: %v", name, err)
	}
}

func (r *memRepo) annotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	opts := &git.CreateTagOptions{Tagger: r.signature(), Message: "release " + name}
	if _, err := r.repo.CreateTag(name, hash, opts); err != nil {
		r.t.Fatalf("git tag -a %s failed: %v", name, err)
	}
}

func TestLatestReleaseTag(t *testing.T) {
	r := newMemRepo(t)
	h := NewGitHistory(r.repo)

	tag, err := h.LatestReleaseTag()
	if err != nil {
		t.Fatalf("LatestReleaseTag on untagged repo: %v", err)
	}
	if tag != nil {
		t.Fatalf("expected no tag, got %+v", *tag)
	}

	c1 := r.commit("chore: init")
	c2 := r.commit("feat: a")
	c3 := r.commit("fix: b")
	r.tag("v0.9.0", c1)
	r.tag("v1.0.0", c2)
	r.tag("1.0.0", c3)
	r.tag("release-2.0.0", c3)
	r.annotatedTag("nightly", c3)

	tag, err = h.LatestReleaseTag()
	if err != nil {
		t.Fatalf("LatestReleaseTag failed: %v", err)
	}
	expected := Tag{Name: "1.0.0", Version: SemanticVersion{1, 0, 0}}
	if tag == nil || *tag != expected {
		t.Fatalf("LatestReleaseTag() = %+v, expected %+v", tag, expected)
	}
}

func TestCommitsSinceLinear(t *testing.T) {
	r := newMemRepo(t)
	base := r.commit("chore: init")
	r.tag("v1.0.0", base)
	r.commit("feat: add export")
	r.commit("fix: typo")

	h := NewGitHistory(r.repo)
	baseline := &Tag{Name: "v1.0.0", Version: SemanticVersion{1, 0, 0}}
	msgs, err := h.CommitsSince(baseline)
	if err != nil {
		t.Fatalf("CommitsSince failed: %v", err)
	}
	expected := []string{"fix: typo", "feat: add export"}
	if !reflect.DeepEqual(msgs, expected) {
		t.Errorf("CommitsSince(v1.0.0) = %q, expected %q", msgs, expected)
	}

	all, err := h.CommitsSince(nil)
	if err != nil {
		t.Fatalf("CommitsSince(nil) failed: %v", err)
	}
	expected = []string{"fix: typo", "feat: add export", "chore: init"}
	if !reflect.DeepEqual(all, expected) {
		t.Errorf("CommitsSince(nil) = %q, expected %q", all, expected)
	}
}

func TestCommitsSinceAnnotatedTag(t *testing.T) {
	r := newMemRepo(t)
	base := r.commit("chore: init")
	r.annotatedTag("v2.1.0", base)
	r.commit("fix: after annotated tag")

	msgs, err := NewGitHistory(r.repo).CommitsSince(&Tag{Name: "v2.1.0"})
	if err != nil {
		t.Fatalf("CommitsSince failed: %v", err)
	}
	expected := []string{"fix: after annotated tag"}
	if !reflect.DeepEqual(msgs, expected) {
		t.Errorf("CommitsSince(v2.1.0) = %q, expected %q", msgs, expected)
	}
}

func TestCommitsSinceTagAtHead(t *testing.T) {
	r := newMemRepo(t)
	r.commit("chore: init")
	head := r.commit("feat: released")
	r.tag("v1.1.0", head)

	msgs, err := NewGitHistory(r.repo).CommitsSince(&Tag{Name: "v1.1.0"})
	if err != nil {
		t.Fatalf("CommitsSince failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no commits after a tag on HEAD, got %q", msgs)
	}
}

// TestCommitsSinceMerge builds a diamond and checks that the merge comes
// first, each side branch appears once, and the order is repeatable.
func TestCommitsSinceMerge(t *testing.T) {
	r := newMemRepo(t)
	base := r.commit("chore: init")
	r.tag("v1.0.0", base)
	x := r.commit("feat: x")
	y := r.commit("fix: y", base)
	r.commit("Merge branch 'x'", y, x)

	h := NewGitHistory(r.repo)
	baseline := &Tag{Name: "v1.0.0"}
	msgs, err := h.CommitsSince(baseline)
	if err != nil {
		t.Fatalf("CommitsSince failed: %v", err)
	}
	expected := []string{"Merge branch 'x'", "fix: y", "feat: x"}
	if !reflect.DeepEqual(msgs, expected) {
		t.Errorf("CommitsSince(v1.0.0) = %q, expected %q", msgs, expected)
	}

	for i := 0; i < 5; i++ {
		again, err := h.CommitsSince(baseline)
		if err != nil {
			t.Fatalf("CommitsSince failed: %v", err)
		}
		if !reflect.DeepEqual(again, msgs) {
			t.Fatalf("CommitsSince is not deterministic: %q vs %q", again, msgs)
		}
	}
}

// TestCommitsSinceBaselineOnSideBranch hides everything reachable from the
// baseline, even commits that HEAD reaches through another path.
func TestCommitsSinceBaselineOnSideBranch(t *testing.T) {
	r := newMemRepo(t)
	base := r.commit("chore: init")
	side := r.commit("feat: side")
	r.tag("v1.1.0", side)
	main := r.commit("fix: main", base)
	r.commit("Merge side", main, side)

	msgs, err := NewGitHistory(r.repo).CommitsSince(&Tag{Name: "v1.1.0"})
	if err != nil {
		t.Fatalf("CommitsSince failed: %v", err)
	}
	expected := []string{"Merge side", "fix: main"}
	if !reflect.DeepEqual(msgs, expected) {
		t.Errorf("CommitsSince(v1.1.0) = %q, expected %q", msgs, expected)
	}
}

func TestCommitsSinceUnknownTag(t *testing.T) {
	r := newMemRepo(t)
	r.commit("chore: init")

	_, err := NewGitHistory(r.repo).CommitsSince(&Tag{Name: "v9.9.9"})
	var repoErr *RepositoryError
	if !errors.As(err, &repoErr) {
		t.Fatalf("expected *RepositoryError for a missing tag, got %v", err)
	}
}

func TestCommitsSinceEmptyRepository(t *testing.T) {
	r := newMemRepo(t)
	_, err := NewGitHistory(r.repo).CommitsSince(nil)
	if !errors.Is(err, ErrEmptyRepository) {
		t.Fatalf("expected ErrEmptyRepository, got %v", err)
	}
}

func TestOpenHistoryNotARepository(t *testing.T) {
	_, err := OpenHistory(t.TempDir())
	var repoErr *RepositoryError
	if !errors.As(err, &repoErr) {
		t.Fatalf("expected *RepositoryError, got %v", err)
	}
}

// TestOpenHistoryGitCLI is an integration test against a repository created
// with the git binary. It is skipped if git is not available.
func TestOpenHistoryGitCLI(t *testing.T) {
	if err := checkGit(); err != nil {
		t.Skip("git is not available on system")
	}
	tmpDir := initGitRepo(t)
	runGit(t, tmpDir, "commit", "--allow-empty", "-m", "chore: init")
	runGit(t, tmpDir, "tag", "v1.0.0")
	runGit(t, tmpDir, "commit", "--allow-empty", "-m", "feat: add export")
	runGit(t, tmpDir, "tag", "-a", "not-a-version", "-m", "marker")
	runGit(t, tmpDir, "commit", "--allow-empty", "-m", "fix: typo", "-m", "Body paragraph.")

	// Open from a subdirectory to exercise .git discovery.
	sub := filepath.Join(tmpDir, "nested", "dir")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	h, err := OpenHistory(sub)
	if err != nil {
		t.Fatalf("OpenHistory failed: %v", err)
	}

	tag, err := h.LatestReleaseTag()
	if err != nil {
		t.Fatalf("LatestReleaseTag failed: %v", err)
	}
	if tag == nil || tag.Name != "v1.0.0" {
		t.Fatalf("LatestReleaseTag() = %+v, expected v1.0.0", tag)
	}

	msgs, err := h.CommitsSince(tag)
	if err != nil {
		t.Fatalf("CommitsSince failed: %v", err)
	}
	expected := []string{"fix: typo\n\nBody paragraph.\n", "feat: add export\n"}
	if !reflect.DeepEqual(msgs, expected) {
		t.Errorf("CommitsSince(v1.0.0) = %q, expected %q", msgs, expected)
	}
}

// checkGit verifies that git is available on the system.
func checkGit() error {
	cmd := exec.Command("git", "--version")
	if err := cmd.Run(); err != nil {
		return errors.New("git is not available on the system")
	}
	return nil
}

func initGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	runGit(t, dir, "config", "tag.gpgsign", "false")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v, output: %s", args, err, string(output))
	}
}
