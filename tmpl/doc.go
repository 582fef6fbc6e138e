// Package tmpl implements the evaluation engine of a small embedded
// templating language used to interpolate named values, iterate over
// collections, branch on field presence, and splice in other templates.
//
// # Syntax
//
// Directives are delimited by dollar signs:
//
//	$key$                                interpolate a field
//	$key(arg1,arg2)$                     interpolate a field with arguments
//	$$                                   a literal dollar sign
//	$if(cond)$ ... $else$ ... $endif$    branch on field presence
//	$for(src)$ ... $sep$ ... $endfor$    iterate over a list field
//	$partial(name)$                      splice in another template
//
// A hyphen hugging either dollar sign of a directive ($-if(x)$, $endif-$)
// trims the whitespace adjacent to it. Trim markers are resolved once, when
// the template is constructed; a template in the evaluator's hands never
// contains them.
//
// Inside an argument list, a bare word is a string literal, a double-quoted
// string is a string literal with escapes, and a nested $expr$ is evaluated
// against the context before the call is resolved. Everywhere else (the
// subject of $if$, $for$, $partial$, and a bare $key$) a word names a field
// to look up. Identifiers consist of letters, digits, underscores, and dots.
//
// # Evaluation
//
// Rendering is driven by a [Context], an ordered, composable capability that
// resolves a key and optional arguments against the current [Item] to a
// typed [Field]. Lookups produce a three-state [Outcome]: found, absent
// (soft), or a hard fault carrying a diagnostic trail. Providers compose
// with [Chain]: the first found or faulted outcome wins, absence falls
// through to the next provider.
//
// $if$ branches on presence alone: any resolved field, including an empty
// string, selects the then-branch. Hard faults inside a condition are
// logged at debug level and select the else-branch; everywhere else they
// abort the render. No partial output is ever returned on failure.
//
// Rendering is synchronous. Templates are immutable after construction and
// safe for concurrent use; the engine holds no mutable state of its own.
// Partial inclusion recurses through the configured [Store] and is not
// cycle-checked unless [WithMaxDepth] is set: preventing include cycles is
// the hosting pipeline's responsibility.
package tmpl
