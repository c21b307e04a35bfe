/*
Package lowhash provides a generic hash table with separate chaining and
caller-supplied hash and equality functions.

A Table works over any key type: the caller passes a hash function and an
equality predicate at construction and both stay fixed for the table's
lifetime. Equal keys must hash identically.

Basic usage:

	import "github.com/theflywheel/lowhash"

	t, err := lowhash.New[string, int](0, lowhash.HashString, lowhash.Equal[string])
	if err != nil {
		log.Fatal(err)
	}
	defer t.Destroy()

	t.Put("a", 1)
	t.Put("a", 3) // replaces, returns false

	if v, ok := t.Get("a"); ok {
		fmt.Println("Value:", v)
	}
	fmt.Println(t.GetOrDefault("missing", 99))

Features:

  - Generic over any key and value type
  - Amortized O(1) Put, Get, Contains and Remove
  - Automatic resizing when the load factor exceeds 0.75
  - Hash codes are cached per entry, so resizing never rehashes keys
  - Growth only by default; optional shrinking with hysteresis
  - xxhash and FNV-1a helpers for strings, byte slices and UUIDs

Implementation Details:

The table is an array of buckets, each the head of a singly linked chain
of entries. New entries are prepended to their chain. When
Len/BucketCount exceeds the load factor after an insert, a new array of
twice the size is allocated and every entry is relinked into it by its
cached hash code modulo the new bucket count. If the new array cannot be
provided (the configured bucket ceiling is reached) the table keeps its
current array and stays fully usable.

The table does not own keys or values. It is not safe for concurrent use.
*/
package lowhash
