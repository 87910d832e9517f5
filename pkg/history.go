package releaseflow

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// History is read-only access to the commits and tags of a repository.
type History interface {
	// LatestReleaseTag returns the tag carrying the highest version, or nil
	// when no tag parses as a version.
	LatestReleaseTag() (*Tag, error)
	// CommitsSince returns the messages of commits reachable from HEAD but
	// not from baseline, children before parents. A nil baseline returns
	// every commit reachable from HEAD.
	CommitsSince(baseline *Tag) ([]string, error)
}

// GitHistory implements History on top of a go-git repository.
type GitHistory struct {
	repo *git.Repository
}

// OpenHistory opens the git repository containing path.
func OpenHistory(path string) (*GitHistory, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &RepositoryError{Op: "open " + path, Err: err}
	}
	return NewGitHistory(repo), nil
}

// NewGitHistory wraps an already opened repository.
func NewGitHistory(repo *git.Repository) *GitHistory {
	return &GitHistory{repo: repo}
}

// TagNames lists every tag in the repository sorted by name.
func (h *GitHistory) TagNames() ([]string, error) {
	iter, err := h.repo.Tags()
	if err != nil {
		return nil, &RepositoryError{Op: "list tags", Err: err}
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, &RepositoryError{Op: "list tags", Err: err}
	}
	// Reference storage order is not stable across backends; sorting makes
	// the tie-break on duplicate versions deterministic.
	sort.Strings(names)
	return names, nil
}

// LatestReleaseTag scans all tags. When two tags carry the same version
// the one whose name sorts first wins.
func (h *GitHistory) LatestReleaseTag() (*Tag, error) {
	names, err := h.TagNames()
	if err != nil {
		return nil, err
	}
	return LatestTag(names), nil
}

// CommitsSince walks the range baseline..HEAD.
func (h *GitHistory) CommitsSince(baseline *Tag) ([]string, error) {
	head, err := h.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, &RepositoryError{Op: "resolve HEAD", Err: ErrEmptyRepository}
		}
		return nil, &RepositoryError{Op: "resolve HEAD", Err: err}
	}

	var hidden map[plumbing.Hash]*object.Commit
	if baseline != nil {
		base, err := h.tagCommit(baseline.Name)
		if err != nil {
			return nil, err
		}
		hidden, err = h.reachable(base.Hash, nil)
		if err != nil {
			return nil, err
		}
	}

	commits, err := h.reachable(head.Hash(), hidden)
	if err != nil {
		return nil, err
	}

	ordered := topoOrder(head.Hash(), commits)
	messages := make([]string, 0, len(ordered))
	for _, c := range ordered {
		messages = append(messages, c.Message)
	}
	return messages, nil
}

// tagCommit peels a lightweight or annotated tag to its commit.
func (h *GitHistory) tagCommit(name string) (*object.Commit, error) {
	ref, err := h.repo.Tag(name)
	if err != nil {
		return nil, &RepositoryError{Op: fmt.Sprintf("resolve tag %q", name), Err: err}
	}

	if annotated, err := h.repo.TagObject(ref.Hash()); err == nil {
		c, err := annotated.Commit()
		if err != nil {
			return nil, &RepositoryError{Op: fmt.Sprintf("peel tag %q", name), Err: err}
		}
		return c, nil
	}

	c, err := h.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, &RepositoryError{Op: fmt.Sprintf("resolve tag %q", name), Err: err}
	}
	return c, nil
}

// reachable collects every commit reachable from start, not descending into
// commits present in stop.
func (h *GitHistory) reachable(start plumbing.Hash, stop map[plumbing.Hash]*object.Commit) (map[plumbing.Hash]*object.Commit, error) {
	seen := make(map[plumbing.Hash]*object.Commit)
	stack := []plumbing.Hash{start}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[hash]; ok {
			continue
		}
		if _, ok := stop[hash]; ok {
			continue
		}
		c, err := h.repo.CommitObject(hash)
		if err != nil {
			return nil, &RepositoryError{Op: "read commit " + hash.String(), Err: err}
		}
		seen[hash] = c
		stack = append(stack, c.ParentHashes...)
	}
	return seen, nil
}

// topoOrder sorts commits so every commit precedes its parents. Among
// commits that are ready at the same time, first parents are visited first,
// so the result is stable for unchanged history.
func topoOrder(head plumbing.Hash, commits map[plumbing.Hash]*object.Commit) []*object.Commit {
	if _, ok := commits[head]; !ok {
		return nil
	}

	pending := make(map[plumbing.Hash]int, len(commits))
	for _, c := range commits {
		for _, p := range uniqueParents(c) {
			if _, ok := commits[p]; ok {
				pending[p]++
			}
		}
	}

	ordered := make([]*object.Commit, 0, len(commits))
	stack := []plumbing.Hash{head}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := commits[hash]
		ordered = append(ordered, c)

		parents := uniqueParents(c)
		for i := len(parents) - 1; i >= 0; i-- {
			p := parents[i]
			if _, ok := commits[p]; !ok {
				continue
			}
			pending[p]--
			if pending[p] == 0 {
				stack = append(stack, p)
			}
		}
	}
	return ordered
}

func uniqueParents(c *object.Commit) []plumbing.Hash {
	if len(c.ParentHashes) < 2 {
		return c.ParentHashes
	}
	out := make([]plumbing.Hash, 0, len(c.ParentHashes))
	seen := make(map[plumbing.Hash]bool, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
