package entities

import (
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// ObjectID is re-exported from go-git.
type ObjectID = plumbing.Hash

// FileMode is re-exported from go-git.
type FileMode = filemode.FileMode

// ZeroID stands for "no object", for example the tip of a missing branch.
var ZeroID = plumbing.ZeroHash //nolint:gochecknoglobals // constant value

// IsObjectID reports whether s spells a full hexadecimal object id.
func IsObjectID(s string) bool {
	return plumbing.IsHash(s)
}

// TreeEntry is one path of a tree to be written. Path may contain slashes;
// intermediate trees are created as needed.
type TreeEntry struct {
	Path string
	Mode FileMode
	ID   ObjectID
}

// Signature names the author or committer of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// CommitSpec describes a commit to be written.
type CommitSpec struct {
	Tree      ObjectID
	Parents   []ObjectID
	Author    Signature
	Committer Signature
	Message   string
}

// RefUpdateResult is the outcome of a compare-and-swap ref update.
type RefUpdateResult int

const (
	RefCreated RefUpdateResult = iota + 1
	RefFastForward
	RefForced
	RefRejected
	RefLockFailure
	RefOther
)

func (r RefUpdateResult) String() string {
	switch r {
	case RefCreated:
		return "NEW"
	case RefFastForward:
		return "FAST_FORWARD"
	case RefForced:
		return "FORCED"
	case RefRejected:
		return "REJECTED"
	case RefLockFailure:
		return "LOCK_FAILURE"
	default:
		return "OTHER"
	}
}

// Succeeded reports whether the ref now points at the new commit.
func (r RefUpdateResult) Succeeded() bool {
	return r == RefCreated || r == RefFastForward || r == RefForced
}
