// Package chatbot implements the keyword-matched book recommender. It is a
// pure function over an ordered rule table: the first rule whose keyword
// appears in the input wins.
package chatbot

import "strings"

// DefaultReply is returned when no rule matches.
const DefaultReply = "Sorry, I don't have a suggestion for that genre yet."

type rule struct {
	keywords []string
	reply    string
}

// First match wins, so rule order is part of the contract: input naming
// several genres gets the earliest rule's reply.
var rules = []rule{
	{keywords: []string{"fantasy"}, reply: "You might like 'Harry Potter' by J.K. Rowling."},
	{keywords: []string{"science fiction", "sci-fi"}, reply: "Try 'Dune' by Frank Herbert."},
	{keywords: []string{"classic"}, reply: "How about 'To Kill a Mockingbird' by Harper Lee?"},
	{keywords: []string{"mystery"}, reply: "Give 'And Then There Were None' by Agatha Christie a go."},
	{keywords: []string{"romance"}, reply: "You could try 'Pride and Prejudice' by Jane Austen."},
}

// Respond maps free-text input to a canned suggestion. Matching is
// case-insensitive substring containment; deterministic and stateless.
func Respond(input string) string {
	lowered := strings.ToLower(input)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.reply
			}
		}
	}
	return DefaultReply
}
