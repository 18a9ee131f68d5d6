package pkgbump

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/bcomnes/pkgbump/pkg/errors"
)

// gitRepo is the repository that contains the manifest.
type gitRepo struct {
	repo *git.Repository
	wt   *git.Worktree
	root string
}

// openGitRepo opens the repository containing dir, searching parent directories.
func openGitRepo(dir string) (*gitRepo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound,
			"opening git repository", err, map[string]any{"dir": dir})
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "opening git worktree", err)
	}
	return &gitRepo{repo: repo, wt: wt, root: resolvePath(wt.Filesystem.Root())}, nil
}

// resolvePath returns an absolute, symlink-free form of p where possible.
func resolvePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return p
}

// relPath converts a filesystem path into a worktree-relative slash path.
func (g *gitRepo) relPath(p string) (string, error) {
	rel, err := filepath.Rel(g.root, resolvePath(p))
	if err != nil {
		return "", fmt.Errorf("resolving %q against %q: %w", p, g.root, err)
	}
	return filepath.ToSlash(rel), nil
}

// checkUncommittedFiles ensures only allowed files are modified in the worktree.
func (g *gitRepo) checkUncommittedFiles(allowed []string) error {
	status, err := g.wt.Status()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "reading git status", err)
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		rel, err := g.relPath(f)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "resolving allowed file", err)
		}
		allowedSet[rel] = struct{}{}
	}

	var disallowed []string
	for path, st := range status {
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		if _, ok := allowedSet[path]; !ok {
			disallowed = append(disallowed, path)
		}
	}
	if len(disallowed) > 0 {
		sort.Strings(disallowed)
		return errors.NewWithContext(errors.ErrCodeDirtyWorktree,
			fmt.Sprintf("working directory is dirty; uncommitted files not included in commit: %v", disallowed),
			map[string]any{"files": disallowed})
	}
	return nil
}

// ensureTagAbsent fails when tag already exists.
func (g *gitRepo) ensureTagAbsent(tag string) error {
	_, err := g.repo.Tag(tag)
	switch {
	case err == nil:
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("git tag %s already exists", tag), map[string]any{"tag": tag})
	case stderrors.Is(err, git.ErrTagNotFound):
		return nil
	default:
		return errors.Wrap(errors.ErrCodeInternal, "looking up git tag", err)
	}
}

// commitAndTag stages files, commits with the new version as the message and
// creates a lightweight tag. A nil author is read from the git config.
func (g *gitRepo) commitAndTag(newVersion, tag string, files []string, author *object.Signature) (plumbing.Hash, error) {
	for _, f := range files {
		rel, err := g.relPath(f)
		if err != nil {
			return plumbing.ZeroHash, errors.Wrap(errors.ErrCodeInternal, "resolving file to stage", err)
		}
		if _, err := g.wt.Add(rel); err != nil {
			return plumbing.ZeroHash, errors.WrapWithContext(errors.ErrCodeInternal,
				"git add failed", err, map[string]any{"file": rel})
		}
	}

	hash, err := g.wt.Commit(newVersion, &git.CommitOptions{Author: author})
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(errors.ErrCodeInternal, "git commit failed", err)
	}
	if _, err := g.repo.CreateTag(tag, hash, nil); err != nil {
		return hash, errors.WrapWithContext(errors.ErrCodeInternal,
			"git tag failed", err, map[string]any{"tag": tag})
	}
	slog.Debug("committed version bump", "commit", hash.String(), "tag", tag)
	return hash, nil
}

// signature builds a commit author from explicit settings; it returns nil
// when no name is configured so the repository config is used instead.
func signature(name, email string) *object.Signature {
	if name == "" {
		return nil
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}
