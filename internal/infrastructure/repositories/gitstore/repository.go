package gitstore

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// maxPeelDepth bounds the number of nested annotated tags followed.
const maxPeelDepth = 16

// GitRepository implements repositories.GitRepository on top of go-git.
type GitRepository struct {
	name string
	repo *git.Repository
}

var _ repositories.GitRepository = (*GitRepository)(nil)

// NewGitRepository wraps repo under the store name name.
func NewGitRepository(name string, repo *git.Repository) *GitRepository {
	return &GitRepository{name: name, repo: repo}
}

func (r *GitRepository) Name() string { return r.name }

func (r *GitRepository) String() string { return r.name }

// refCandidates lists the full names a short ref may stand for, in the same
// order git itself tries them.
func refCandidates(ref string) []plumbing.ReferenceName {
	if ref == "HEAD" || strings.HasPrefix(ref, "refs/") {
		return []plumbing.ReferenceName{plumbing.ReferenceName(ref)}
	}
	return []plumbing.ReferenceName{
		plumbing.ReferenceName(ref),
		plumbing.ReferenceName("refs/" + ref),
		plumbing.NewTagReferenceName(ref),
		plumbing.NewBranchReferenceName(ref),
	}
}

func (r *GitRepository) ResolveRef(ref string) (entities.ObjectID, error) {
	if entities.IsObjectID(ref) {
		return r.peelToCommit(plumbing.NewHash(ref), ref)
	}

	for _, candidate := range refCandidates(ref) {
		reference, err := r.repo.Reference(candidate, true)
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			continue
		}
		if err != nil {
			return entities.ZeroID, fmt.Errorf("failed to read ref %s in %s: %w", candidate, r.name, err)
		}
		return r.peelToCommit(reference.Hash(), ref)
	}

	return entities.ZeroID, fmt.Errorf("%w: %s in %s", repositories.ErrRefNotFound, ref, r.name)
}

func (r *GitRepository) peelToCommit(id plumbing.Hash, ref string) (entities.ObjectID, error) {
	for range maxPeelDepth {
		obj, err := r.repo.Storer.EncodedObject(plumbing.AnyObject, id)
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return entities.ZeroID, fmt.Errorf("%w: %s in %s", repositories.ErrRefNotFound, ref, r.name)
		}
		if err != nil {
			return entities.ZeroID, fmt.Errorf("failed to read object %s in %s: %w", id, r.name, err)
		}

		switch obj.Type() {
		case plumbing.CommitObject:
			return id, nil
		case plumbing.TagObject:
			tag, decodeErr := object.DecodeTag(r.repo.Storer, obj)
			if decodeErr != nil {
				return entities.ZeroID, fmt.Errorf("failed to decode tag %s in %s: %w", id, r.name, decodeErr)
			}
			id = tag.Target
		default:
			return entities.ZeroID, fmt.Errorf(
				"%w: %s in %s points at a %s", repositories.ErrRefNotFound, ref, r.name, obj.Type())
		}
	}
	return entities.ZeroID, fmt.Errorf("%w: %s in %s has too many nested tags", repositories.ErrRefNotFound, ref, r.name)
}

func (r *GitRepository) ReadBlob(spec string) ([]byte, error) {
	ref, filePath, ok := strings.Cut(spec, ":")
	if !ok || ref == "" {
		return nil, fmt.Errorf("invalid blob spec %q, expected <ref>:<path>", spec)
	}
	filePath = strings.Trim(path.Clean("/"+filePath), "/")
	if filePath == "" {
		return nil, fmt.Errorf("%w: empty path in %q", repositories.ErrObjectNotFound, spec)
	}

	commitID, err := r.ResolveRef(ref)
	if err != nil {
		return nil, fmt.Errorf("repo %s does not have %s: %w", r.name, spec, err)
	}
	commit, err := r.repo.CommitObject(commitID)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s in %s: %w", commitID, r.name, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s in %s: %w", commitID, r.name, err)
	}

	file, err := tree.File(filePath)
	if errors.Is(err, object.ErrFileNotFound) || errors.Is(err, object.ErrDirectoryNotFound) ||
		errors.Is(err, object.ErrEntryNotFound) {
		return nil, fmt.Errorf("%w: repo %s does not have %s", repositories.ErrObjectNotFound, r.name, spec)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s in %s: %w", spec, r.name, err)
	}

	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in %s: %w", spec, r.name, err)
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func (r *GitRepository) ListBranches() (map[string]entities.ObjectID, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches of %s: %w", r.name, err)
	}
	defer iter.Close()

	branches := make(map[string]entities.ObjectID)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches[ref.Name().String()] = ref.Hash()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list branches of %s: %w", r.name, err)
	}
	return branches, nil
}

func (r *GitRepository) WriteBlob(content []byte) (entities.ObjectID, error) {
	obj := r.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(content)))

	writer, err := obj.Writer()
	if err != nil {
		return entities.ZeroID, fmt.Errorf("failed to write blob in %s: %w", r.name, err)
	}
	if _, err = writer.Write(content); err != nil {
		_ = writer.Close()
		return entities.ZeroID, fmt.Errorf("failed to write blob in %s: %w", r.name, err)
	}
	if err = writer.Close(); err != nil {
		return entities.ZeroID, fmt.Errorf("failed to write blob in %s: %w", r.name, err)
	}

	return r.store(obj)
}

func (r *GitRepository) WriteTree(entries []entities.TreeEntry) (entities.ObjectID, error) {
	root, err := buildTreeNodes(entries)
	if err != nil {
		return entities.ZeroID, fmt.Errorf("failed to build tree in %s: %w", r.name, err)
	}
	return r.writeNode(root)
}

func (r *GitRepository) writeNode(node *treeNode) (entities.ObjectID, error) {
	tree := &object.Tree{}
	for _, name := range node.sortedNames() {
		child := node.children[name]
		if child.leaf != nil {
			tree.Entries = append(tree.Entries, object.TreeEntry{
				Name: name, Mode: child.leaf.Mode, Hash: child.leaf.ID,
			})
			continue
		}
		childID, err := r.writeNode(child)
		if err != nil {
			return entities.ZeroID, err
		}
		tree.Entries = append(tree.Entries, object.TreeEntry{
			Name: name, Mode: dirMode, Hash: childID,
		})
	}

	obj := r.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return entities.ZeroID, fmt.Errorf("failed to encode tree in %s: %w", r.name, err)
	}
	return r.store(obj)
}

func (r *GitRepository) WriteCommit(spec entities.CommitSpec) (entities.ObjectID, error) {
	commit := &object.Commit{
		Author:       toSignature(spec.Author),
		Committer:    toSignature(spec.Committer),
		Message:      spec.Message,
		TreeHash:     spec.Tree,
		ParentHashes: spec.Parents,
	}

	obj := r.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return entities.ZeroID, fmt.Errorf("failed to encode commit in %s: %w", r.name, err)
	}
	return r.store(obj)
}

func (r *GitRepository) store(obj plumbing.EncodedObject) (entities.ObjectID, error) {
	id, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return entities.ZeroID, fmt.Errorf("failed to store %s object in %s: %w", obj.Type(), r.name, err)
	}
	return id, nil
}

func toSignature(sig entities.Signature) object.Signature {
	return object.Signature{Name: sig.Name, Email: sig.Email, When: sig.When}
}

// UpdateRef performs the compare-and-swap. The current value is checked
// first, so that a stale expectation is reported as rejected even by storers
// whose own check cannot express "must not exist".
func (r *GitRepository) UpdateRef(
	branch string,
	expectedOld, newID entities.ObjectID,
) (entities.RefUpdateResult, error) {
	name := plumbing.ReferenceName(branch)
	if !strings.HasPrefix(branch, "refs/") {
		name = plumbing.NewBranchReferenceName(branch)
	}

	current, err := r.repo.Storer.Reference(name)
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		if !expectedOld.IsZero() {
			return entities.RefRejected, nil
		}
	case err != nil:
		return entities.RefOther, fmt.Errorf("failed to read %s in %s: %w", name, r.name, err)
	case current.Hash() != expectedOld:
		return entities.RefRejected, nil
	}

	newRef := plumbing.NewHashReference(name, newID)
	oldRef := plumbing.NewHashReference(name, expectedOld)
	if expectedOld.IsZero() && !checksAbsence(r.repo.Storer) {
		oldRef = nil
	}
	if err = r.repo.Storer.CheckAndSetReference(newRef, oldRef); err != nil {
		if errors.Is(err, storage.ErrReferenceHasChanged) {
			return entities.RefRejected, nil
		}
		return entities.RefOther, fmt.Errorf("failed to update %s in %s: %w", name, r.name, err)
	}

	if expectedOld.IsZero() {
		return entities.RefCreated, nil
	}
	if r.isAncestor(expectedOld, newID) {
		return entities.RefFastForward, nil
	}
	return entities.RefForced, nil
}

// checksAbsence reports whether storer compares a zero-hash old reference
// against a missing one under its lock. The dotgit storer looks an empty new
// ref file up in packed-refs, fails the create with ErrReferenceNotFound and
// leaves the empty file behind, so creates there rely on the read above.
func checksAbsence(storer storage.Storer) bool {
	_, onDisk := storer.(*filesystem.Storage)
	return !onDisk
}

func (r *GitRepository) isAncestor(ancestor, descendant plumbing.Hash) bool {
	older, err := r.repo.CommitObject(ancestor)
	if err != nil {
		return false
	}
	newer, err := r.repo.CommitObject(descendant)
	if err != nil {
		return false
	}
	ok, err := older.IsAncestor(newer)
	return err == nil && ok
}

// close releases the storer when it holds open files.
func (r *GitRepository) close() error {
	if closer, ok := r.repo.Storer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
