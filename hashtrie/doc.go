/*
Package hashtrie implements a persistent (immutable) associative map and set,
backed by a hash array mapped trie (HAMT).

A persistent map has copy-on-write behaviour: each “modification” (insertion,
replacement or deletion) creates a copy, leaving the original unmodified.
Under the hood, copy-on-write clones only the nodes on the path from the trie
root to the affected slot, and shares every untouched subtree with the
original. Thus, most of the structure and memory is shared between original
and copy, transparently to clients.

Persistent maps are inherently safe for concurrent readers: no operation ever
mutates a node reachable from an existing map value.

Keys are located through a capability pair of hash function and equality
relation (persistent.Hasher). Two keys whose hashes agree on every consumed
chunk of bits end up in a collision bucket and are told apart by equality
alone.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>
*/
package hashtrie

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'persistent.hashtrie'.
func tracer() tracing.Trace {
	return tracing.Select("persistent.hashtrie")
}
