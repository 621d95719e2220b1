//go:build ignore

// Package main generates a synthetic Indonesian corpus for local testing
// and benchmarking.
// Usage: go run scripts/generate-corpus.go -files 200 -output testdata/corpus
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

var (
	numFiles  = flag.Int("files", 200, "Number of documents to generate")
	outputDir = flag.String("output", "testdata/corpus", "Output directory")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

// topics map a filename keyword to subject words used in the body.
var topics = map[string][]string{
	"sejarah": {"kerajaan", "majapahit", "sriwijaya", "mataram", "penjajahan", "kemerdekaan", "proklamasi"},
	"wisata":  {"pantai", "gunung", "candi", "danau", "taman", "pulau", "air terjun"},
	"budaya":  {"batik", "wayang", "gamelan", "tarian", "upacara", "kerajinan", "kuliner"},
	"catatan": {"penduduk", "ekonomi", "pertanian", "pendidikan", "kesehatan"},
}

var regions = []string{
	"Jawa Tengah", "Jawa Timur", "Jawa Barat", "Sumatra Utara", "Sumatra Selatan",
	"Bali", "Kalimantan Timur", "Sulawesi Selatan", "Nusa Tenggara Barat", "Papua",
}

var sentences = []string{
	"%s merupakan bagian penting dari %s yang dikenal luas oleh masyarakat.",
	"Banyak pengunjung datang untuk melihat %s di wilayah %s setiap tahunnya.",
	"Para peneliti mencatat bahwa %s di %s berkembang sejak berabad-abad lalu.",
	"Pemerintah daerah terus melestarikan %s sebagai warisan %s.",
	"Cerita tentang %s diwariskan turun-temurun di %s.",
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	keywords := make([]string, 0, len(topics))
	for k := range topics {
		keywords = append(keywords, k)
	}

	for i := 0; i < *numFiles; i++ {
		keyword := keywords[rng.Intn(len(keywords))]
		subjects := topics[keyword]
		subject := subjects[rng.Intn(len(subjects))]
		region := regions[rng.Intn(len(regions))]

		name := fmt.Sprintf("%s_%s_%03d.txt", keyword, pathSafe(subject), i)
		body := fmt.Sprintf("url: https://contoh.id/%s/%d\n", keyword, i)
		paragraphs := 3 + rng.Intn(5)
		for p := 0; p < paragraphs; p++ {
			tmpl := sentences[rng.Intn(len(sentences))]
			body += fmt.Sprintf(tmpl, subject, region) + "\n"
		}

		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Generated %d documents in %s\n", *numFiles, *outputDir)
}

func pathSafe(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}
