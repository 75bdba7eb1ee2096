package domain

// LookupState distinguishes a query still in flight from one that
// definitively found nothing.
type LookupState int

const (
	LookupPending LookupState = iota
	LookupFound
	LookupAbsent
)

func (s LookupState) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupAbsent:
		return "absent"
	default:
		return "pending"
	}
}

// Lookup is the result of a slug lookup. The zero value is Pending.
// A Found lookup always carries the post's category when the post has one.
type Lookup struct {
	State    LookupState
	Post     Post
	Category *Category
}

func Found(post Post, category *Category) Lookup {
	return Lookup{State: LookupFound, Post: post, Category: category}
}

func Absent() Lookup {
	return Lookup{State: LookupAbsent}
}

func Pending() Lookup {
	return Lookup{}
}

func (l Lookup) IsFound() bool   { return l.State == LookupFound }
func (l Lookup) IsAbsent() bool  { return l.State == LookupAbsent }
func (l Lookup) IsPending() bool { return l.State == LookupPending }
