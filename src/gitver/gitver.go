// Package gitver derives an app versionName and versionCode from git
// history: the nearest semver tag supplies the name, the number of commits
// reachable from HEAD supplies the code.
package gitver

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/sofmeright/buildcfg/src/config"
)

// VersionInfo holds resolved version metadata from git.
type VersionInfo struct {
	Version     string // "1.2.3", "1.2.3-rc.1", "1.2.3-dev+abc1234", "0.0.0-dev+abc1234"
	Base        string // semver base without prerelease: "1.2.3"
	Prerelease  string // "rc.1" or "" for stable
	Tag         string // nearest tag name, "" if none
	SHA         string // short HEAD hash
	Branch      string
	CommitCount int  // commits reachable from HEAD
	IsRelease   bool // HEAD is exactly at the nearest tag
}

// semverRe captures major.minor.patch and optional -prerelease suffix.
var semverRe = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:-(.+))?$`)

// Detect resolves version info for the repository containing dir.
func Detect(dir string) (*VersionInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}

	v := &VersionInfo{SHA: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		v.Branch = head.Name().Short()
	}

	tags, err := tagsByCommit(repo)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	var nearest string
	err = iter.ForEach(func(c *object.Commit) error {
		if nearest == "" {
			if name, ok := tags[c.Hash]; ok {
				nearest = name
				v.IsRelease = c.Hash == head.Hash()
			}
		}
		v.CommitCount++
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("walking history: %w", err)
	}

	if nearest == "" {
		v.Version = "0.0.0-dev+" + v.SHA
		v.Base = "0.0.0"
		return v, nil
	}

	v.Tag = nearest
	m := semverRe.FindStringSubmatch(nearest)
	v.Base = fmt.Sprintf("%s.%s.%s", m[1], m[2], m[3])
	v.Prerelease = m[4]
	v.Version = v.Base
	if v.Prerelease != "" {
		v.Version += "-" + v.Prerelease
	}
	if !v.IsRelease {
		v.Version += "-dev+" + v.SHA
	}
	return v, nil
}

// tagsByCommit maps commit hashes to semver tag names. Annotated tags are
// peeled to their target commit. When several tags point at one commit the
// lexically greatest wins, so the result does not depend on iteration order.
func tagsByCommit(repo *git.Repository) (map[plumbing.Hash]string, error) {
	refs, err := repo.Tags()
	if err != nil {
		return nil, err
	}
	defer refs.Close()

	out := make(map[plumbing.Hash]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !semverRe.MatchString(name) {
			return nil
		}

		hash := ref.Hash()
		if tag, err := repo.TagObject(hash); err == nil {
			commit, err := tag.Commit()
			if err != nil {
				return nil // tag of a non-commit object
			}
			hash = commit.Hash
		}

		if prev, ok := out[hash]; !ok || name > prev {
			out[hash] = name
		}
		return nil
	})
	return out, err
}

// Apply fills versionName and versionCode in raw where they are unset.
// Declared values always win over git-derived ones.
func (v *VersionInfo) Apply(raw config.RawDescriptor) config.RawDescriptor {
	out := raw.Clone()
	if out.VersionName == nil {
		out.VersionName = config.String(v.Version)
	}
	if out.VersionCode == nil && v.CommitCount > 0 {
		out.VersionCode = config.Int(v.CommitCount)
	}
	return out
}
