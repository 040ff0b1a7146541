/*
Package persistent provides immutable persistent data structures for Go.

Persistent data structures can be copied and modified efficiently, leaving the
original unchanged. Functional programming languages like Lisp and Clojure have
long relied on using them. This module offers a selection of collection types
with similar properties: a hash-trie-backed associative map and set
(sub-package hashtrie) and a linked LIFO stack (sub-package stack).

Immutable data structures in many cases offer benefits over mutable data
structures in terms of concurrent access and functional reasoning. *Persistent*
immutable data structures offer structural sharing, which means that if two
data structures are mostly copies of each other, most of the memory they take
up will be shared between them. This implies that making copies of an immutable
data structure is relatively cheap in terms of space- and time-complexity.

The root package holds the hashing contract shared by the collection types:
keys are located through a client-provided capability pair of a hash function
and an equality relation, bundled in interface Hasher.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023 Norbert Pillmayer <norbert@pillmayer.com>
*/
package persistent
