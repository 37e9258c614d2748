package models

// DeletePolicy says what happens to referencing rows when a parent row is deleted.
type DeletePolicy string

const (
	Cascade  DeletePolicy = "CASCADE"
	SetNull  DeletePolicy = "SET NULL"
	Restrict DeletePolicy = "RESTRICT"
)

// Relationship is one foreign key: Child.Column references Parent.id.
type Relationship struct {
	Parent string
	Child  string
	Column string
	Policy DeletePolicy
}

// DeletionPolicies lists every foreign key in the schema with the policy
// the store applies when the parent row is deleted.
var DeletionPolicies = []Relationship{
	{Parent: "tags", Child: "post_tag_links", Column: "tag_id", Policy: Cascade},
	{Parent: "posts", Child: "post_tag_links", Column: "post_id", Policy: Cascade},
	{Parent: "posts", Child: "comments", Column: "post_id", Policy: Cascade},
	{Parent: "aliases", Child: "posts", Column: "alias_id", Policy: SetNull},
	{Parent: "issues", Child: "posts", Column: "issue_id", Policy: SetNull},
	{Parent: "authors", Child: "posts", Column: "author_id", Policy: Restrict},
}

// PoliciesFor returns the relationships whose parent is the given table.
// Restrict rules come first so a refused delete touches nothing.
func PoliciesFor(parent string) []Relationship {
	var restrict, rest []Relationship
	for _, r := range DeletionPolicies {
		if r.Parent != parent {
			continue
		}
		if r.Policy == Restrict {
			restrict = append(restrict, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(restrict, rest...)
}
