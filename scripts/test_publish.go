//go:build ignore

// Публикует тестовую задачу привязки в stream:correlation:request и ждёт ответ.
//
//	go run scripts/test_publish.go -redis localhost:6379 -addresses 500 -zones 200
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/parking-zone-service/internal/domain"
)

// Центр Мальмё в плоских координатах
const (
	baseX = 277360.0
	baseY = 11132.0
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	algorithm := flag.String("algorithm", "", "distance, kdtree, rtree, grid or raycast; empty uses worker default")
	nAddresses := flag.Int("addresses", 100, "number of random addresses")
	nZones := flag.Int("zones", 50, "number of random zones")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	job := domain.CorrelationJob{
		JobID:     uuid.New(),
		Algorithm: *algorithm,
		Addresses: make([]domain.Address, *nAddresses),
		Zones:     make([]domain.Zone, *nZones),
	}
	for i := range job.Addresses {
		job.Addresses[i] = domain.Address{
			FullAddress: fmt.Sprintf("Testgatan %d", i+1),
			Coordinates: domain.NewPlanarPoint(baseX+rng.Float64()*2000, baseY+rng.Float64()*2000),
		}
	}
	for i := range job.Zones {
		x, y := baseX+rng.Float64()*2000, baseY+rng.Float64()*2000
		job.Zones[i] = domain.Zone{
			Start: domain.NewPlanarPoint(x, y),
			End:   domain.NewPlanarPoint(x+rng.Float64()*100, y+rng.Float64()*20),
			Info:  "Tisdag 8-9",
		}
	}

	data, err := json.Marshal(job)
	if err != nil {
		log.Fatalf("Failed to marshal job: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamCorrelationRequest,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish job: %v", err)
	}

	fmt.Printf("Job published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamCorrelationRequest)
	fmt.Printf("   Message ID: %s\n", id)
	fmt.Printf("   Job ID: %s\n", job.JobID)
	fmt.Printf("   Addresses: %d, zones: %d\n", len(job.Addresses), len(job.Zones))
	fmt.Printf("\nWaiting for response in %s...\n", domain.StreamCorrelationDone)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{domain.StreamCorrelationDone, "0"},
				Count:   100,
				Block:   -1,
			}).Result()
			if err != nil && err != redis.Nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					raw, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}
					var done domain.CorrelationJobDone
					if err := json.Unmarshal([]byte(raw), &done); err != nil || done.JobID != job.JobID {
						continue
					}

					fmt.Printf("\nResponse received: algorithm=%s matched=%d/%d\n",
						done.Algorithm, done.Matched, len(job.Addresses))
					if done.Error != "" {
						fmt.Printf("   Error: %s\n", done.Error)
					}
					return
				}
			}
		}
	}
}
