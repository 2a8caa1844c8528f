// Package resources models the API as a tree of resources (root, the
// packages and users collections and their documents) and evaluates the
// per-resource access control lists.
package resources

import (
	"context"
	"errors"
	"strings"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/document/repository"
	"go.mongodb.org/mongo-driver/bson"
)

// Kind is the variant of a Node.
type Kind int

const (
	Root Kind = iota
	Packages
	Package
	Users
	User
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Packages:
		return "packages"
	case Package:
		return "package"
	case Users:
		return "users"
	case User:
		return "user"
	}
	return "unknown"
}

// Node is a resource. Collections carry the backing collection, documents
// the filter that selects them. Parent is only used to find the collection.
type Node struct {
	Kind   Kind
	Name   string
	Parent *Node

	Collection repository.Collection
	Spec       bson.M

	// Owners of a Package, loaded with the node.
	Owners []string
}

// Path returns the slash separated path from the root.
func (n *Node) Path() string {
	if n.Parent == nil {
		return "/"
	}
	parent := n.Parent.Path()
	if parent == "/" {
		return "/" + n.Name
	}
	return parent + "/" + n.Name
}

// Store returns the collection a document belongs to.
func (n *Node) Store() repository.Collection {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Collection != nil {
			return cur.Collection
		}
	}
	return nil
}

// ACL returns the entries for n, evaluated first match wins.
func (n *Node) ACL() []ACE {
	acl := []ACE{
		allow(Admins, All),
		allow(System, All),
	}
	switch n.Kind {
	case Packages:
		acl = append(acl,
			allow(Everyone, PkgsView, PkgView),
			deny(Banned, PkgCreate),
			allow(Authenticated, PkgCreate),
		)
	case Package:
		acl = append(acl,
			allow(Everyone, PkgView),
			deny(Banned, All),
		)
		for _, o := range n.Owners {
			acl = append(acl, allow(UserPrincipal(o), PkgUpdate, PkgDelete))
		}
	case Users:
		acl = append(acl, allow(Everyone, UserList))
	case User:
		acl = append(acl, deny(Banned, All))
		if nick, ok := n.Spec["nickname"].(string); ok {
			acl = append(acl, allow(UserPrincipal(nick), UserGet, UserUpdate, UserDelete))
		}
	}
	return acl
}

// Tree is the resource hierarchy over the two collections.
type Tree struct {
	root, packages, users *Node
}

// NewTree builds the static part of the hierarchy.
func NewTree(packages, users repository.Collection) *Tree {
	root := &Node{Kind: Root}
	return &Tree{
		root:     root,
		packages: &Node{Kind: Packages, Name: "packages", Parent: root, Collection: packages},
		users:    &Node{Kind: Users, Name: "users", Parent: root, Collection: users},
	}
}

func (t *Tree) Root() *Node     { return t.root }
func (t *Tree) Packages() *Node { return t.packages }
func (t *Tree) Users() *Node    { return t.users }

// Package returns the node of the named package with its owners loaded.
func (t *Tree) Package(ctx context.Context, name string) (*Node, error) {
	n := &Node{Kind: Package, Name: name, Parent: t.packages, Spec: bson.M{"name": name}}
	d, err := t.packages.Collection.FindOne(ctx, n.Spec)
	if err != nil {
		return nil, notFound(err)
	}
	n.Owners = document.Strings(d, "owners")
	return n, nil
}

// User returns the node of the user with the given nickname.
func (t *Tree) User(ctx context.Context, nick string) (*Node, error) {
	n := &Node{Kind: User, Name: nick, Parent: t.users, Spec: bson.M{"nickname": nick}}
	if _, err := t.users.Collection.FindOne(ctx, n.Spec); err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

// Resolve maps a request path such as "/packages/foo" onto a node.
func (t *Tree) Resolve(ctx context.Context, path string) (*Node, error) {
	segs := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segs) == 0 {
		return t.root, nil
	}
	var coll *Node
	switch segs[0] {
	case "packages":
		coll = t.packages
	case "users":
		coll = t.users
	default:
		return nil, apperr.NotFound()
	}
	switch len(segs) {
	case 1:
		return coll, nil
	case 2:
		if coll.Kind == Packages {
			return t.Package(ctx, segs[1])
		}
		return t.User(ctx, segs[1])
	}
	return nil, apperr.NotFound()
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound()
	}
	return err
}
