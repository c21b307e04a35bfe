package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/theflywheel/lowhash"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Small capacity so the inserts below trigger a few resizes.
	t, err := lowhash.NewString[int](4, lowhash.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	defer t.Destroy()

	fmt.Println("Table created with", t.BucketCount(), "buckets")

	for i := 0; i < 10; i++ {
		if _, err := t.Put(fmt.Sprintf("key-%d", i), i*100); err != nil {
			log.Fatalf("Failed to insert key %d: %v", i, err)
		}
	}

	fmt.Printf("Inserted %d pairs, now %d buckets\n", t.Len(), t.BucketCount())

	for i := 0; i < 15; i += 2 {
		key := fmt.Sprintf("key-%d", i)
		if v, ok := t.Get(key); ok {
			fmt.Printf("%s => %d\n", key, v)
		} else {
			fmt.Printf("%s not found\n", key)
		}
	}

	// Update a value
	if inserted, _ := t.Put("key-2", 999); !inserted {
		fmt.Println("Updated key-2 =>", t.GetOrDefault("key-2", -1))
	}

	t.Remove("key-4")
	fmt.Println("key-4 present after remove:", t.Contains("key-4"))
	fmt.Println("missing with default:", t.GetOrDefault("missing", 99))

	s := t.Stats()
	fmt.Printf("Stats: entries=%d buckets=%d load=%.2f resizes=%d longest chain=%d\n",
		s.Entries, s.Buckets, s.LoadFactor, s.Resizes, s.LongestChain)
}
