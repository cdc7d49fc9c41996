package main

// feed_gen.go is a tiny helper utility to generate deterministic synthetic
// post streams for standalone benchmarking of feedline (outside `go test`).
// It emits tab-separated (uid, cid, ts, blob) rows which can later be fed
// into content.Hot.Add by a load-testing harness, or piped into
// feedline-inspect-adjacent tooling.
//
// Usage:
//   go run tools/feed_gen/feed_gen.go -n 1000000 -dist=zipf -seed=42 -out posts.tsv
//
// Flags:
//   -n       number of posts to generate (default 1e6)
//   -dist    author uid distribution: "uniform" or "zipf" (default zipf, since
//            real authorship is heavily skewed toward a small set of accounts)
//   -zipfs   Zipf s parameter (>1)  (default 1.2)
//   -zipfv   Zipf v parameter (>=1) (default 1.0)
//   -users   size of the uid pool (default 1e5)
//   -window  window duration in seconds, bounds the ts spread (default 3600)
//   -blob    blob size in bytes (default 64)
//   -seed    RNG seed (default current time)
//   -out     output file (default stdout)
//
// The program is embarrassingly simple but placed under version control so
// that any contributor can regenerate the exact dataset used in performance
// regression hunting.
//
// © 2025 feedline authors. MIT License.

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

func main() {
	var (
		n        = flag.Int("n", 1_000_000, "number of posts to generate")
		dist     = flag.String("dist", "zipf", "uid distribution: uniform or zipf")
		zipfS    = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV    = flag.Float64("zipfv", 1.0, "zipf v parameter (>=1)")
		users    = flag.Uint64("users", 100_000, "size of the uid pool")
		window   = flag.Uint64("window", 3600, "window duration in seconds")
		blobSize = flag.Int("blob", 64, "blob size in bytes")
		seedVal  = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath  = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seedVal))

	var uidGen func() uint64
	switch *dist {
	case "uniform":
		uidGen = func() uint64 { return rnd.Uint64() % *users }
	case "zipf":
		if *zipfS <= 1.0 || *zipfV < 1 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >=1")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, *users-1)
		uidGen = z.Uint64
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}

	var out *os.File
	var err error
	if *outPath == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	blob := make([]byte, *blobSize)
	for i := 0; i < *n; i++ {
		uid := uidGen()
		cid := uint64(i) + 1
		ts := rnd.Uint64() % *window
		rnd.Read(blob)
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", uid, cid, ts, hex.EncodeToString(blob))
	}
}
