// Minimal end-to-end check of a running etbot admin API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

var (
	baseURL  = getenv("API_URL", "http://localhost:8080/v1")
	redisURL = getenv("REDIS_URL", "")
	password = getenv("API_ADMIN_PASSWORD", "")
	billRef  = getenv("BILL", "")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	doJSON("GET", "/health", nil, nil, http.StatusOK)

	before := index()
	if password != "" {
		// Re-setting the current value exercises auth without moving the counter.
		setIndex(token(), before)
		if after := index(); after < before {
			log.Fatalf("index went backwards: %d -> %d", before, after)
		}
	}

	if billRef != "" {
		checkBill(billRef)
	}

	if redisURL != "" {
		lastEvent(context.Background())
	}

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- auth

func token() string {
	var resp struct{ Token string }
	doJSON("POST", "/auth/token", map[string]any{"password": password}, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("token: empty token")
	}
	return resp.Token
}

// ----------------------------- senate

func index() int {
	var resp struct{ Index int }
	doJSON("GET", "/senate/index", nil, &resp, http.StatusOK)
	return resp.Index
}

func setIndex(tok string, n int) {
	doAuth(tok, "PUT", "/senate/index", map[string]any{"index": n}, nil, http.StatusOK)
}

func checkBill(ref string) {
	if _, err := strconv.Atoi(ref); err != nil {
		log.Fatalf("BILL must be a number: %v", err)
	}
	var bill struct {
		Index  int
		Status string
		Votes  string
	}
	doJSON("GET", "/senate/bills/"+ref, nil, &bill, http.StatusOK)
	fmt.Printf("bill %d: %s (%s)\n", bill.Index, bill.Status, bill.Votes)
}

func lastEvent(ctx context.Context) {
	rdb := mustRedis()
	defer rdb.Close()
	msgs, err := rdb.XRevRangeN(ctx, "etbot.senate.events", "+", "-", 1).Result()
	if err != nil {
		log.Fatalf("redis xrevrange: %v", err)
	}
	if len(msgs) == 0 {
		fmt.Println("no senate events yet")
		return
	}
	fmt.Printf("last senate event %s: %v\n", msgs[0].ID, msgs[0].Values)
}

// ----------------------------- helpers

func mustRedis() *redis.Client {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url: %v", err)
	}
	return redis.NewClient(opt)
}

func doAuth(token, method, path string, body, out any, want int) {
	doReq(method, path, token, body, out, want)
}

func doJSON(method, path string, body, out any, want int) {
	doReq(method, path, "", body, out, want)
}

func doReq(method, path, token string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
