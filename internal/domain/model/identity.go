package model

import "sort"

// UserIdentity is a contributor record owned outside this module. Only
// TopicName is ever written here.
type UserIdentity struct {
	ID        string
	TopicName string
	Aliases   []string
}

// AliasSet is the canonical set of aliases one contributor commits under.
// Queries match hunk authors against it by exact string comparison.
type AliasSet map[string]struct{}

// NewAliasSet builds a set from the given aliases, dropping empty strings.
func NewAliasSet(aliases ...string) AliasSet {
	s := make(AliasSet, len(aliases))
	for _, a := range aliases {
		if a != "" {
			s[a] = struct{}{}
		}
	}
	return s
}

// Contains reports whether alias is a member of the set.
func (s AliasSet) Contains(alias string) bool {
	_, ok := s[alias]
	return ok
}

// Sorted returns the members in lexical order.
func (s AliasSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
