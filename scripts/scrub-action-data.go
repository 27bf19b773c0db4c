package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Minimal shape to validate stored records without importing the full
// repository types.
type actionData struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning action records...")

	var corruptedKeys []string
	var checkedCount int

	iter := client.Scan(ctx, 0, "action:*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if key == "action:unresolved" {
			continue
		}
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var record actionData
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		switch record.Status {
		case "PENDING", "PROCESSING", "APPLIED", "FAILED":
		default:
			fmt.Printf("✗ Unknown status in %s: %q\n", key, record.Status)
			corruptedKeys = append(corruptedKeys, key)
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	// Index entries whose record is gone keep the reaper busy for nothing.
	ids, err := client.SMembers(ctx, "action:unresolved").Result()
	if err != nil {
		log.Fatal("Error reading unresolved index:", err)
	}

	var orphanedIDs []string
	for _, id := range ids {
		exists, err := client.Exists(ctx, "action:"+id).Result()
		if err != nil {
			fmt.Printf("Error checking action:%s: %v\n", id, err)
			continue
		}
		if exists == 0 {
			fmt.Printf("✗ Orphaned unresolved index entry: %s\n", id)
			orphanedIDs = append(orphanedIDs, id)
		}
	}

	fmt.Printf("\nChecked %d records, found %d corrupted and %d orphaned index entries\n",
		checkedCount, len(corruptedKeys), len(orphanedIDs))

	if len(corruptedKeys) == 0 && len(orphanedIDs) == 0 {
		fmt.Println("Nothing to clean up!")
		return
	}

	if len(corruptedKeys) > 0 {
		fmt.Println("\nCorrupted keys:")
		fmt.Println("  - " + strings.Join(corruptedKeys, "\n  - "))
	}

	fmt.Print("\nDo you want to DELETE corrupted records and prune the index? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range corruptedKeys {
		if err := client.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
			continue
		}
		id := strings.TrimPrefix(key, "action:")
		client.SRem(ctx, "action:unresolved", id)
		fmt.Printf("Deleted %s\n", key)
	}
	for _, id := range orphanedIDs {
		if err := client.SRem(ctx, "action:unresolved", id).Err(); err != nil {
			fmt.Printf("Failed to prune index entry %s: %v\n", id, err)
		} else {
			fmt.Printf("Pruned index entry %s\n", id)
		}
	}
	fmt.Println("\nCleanup complete!")
}
