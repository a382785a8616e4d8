// Basic script that writes synthetic data to help grow a data file for
// testing and benchmarking.
package main

import (
	"flag"
	"math/rand"
	"time"

	"github.com/davidmasek/pollenstore"

	"github.com/phuslu/log"
)

const (
	keyLength     = 8
	maxValueKiB   = 200
	progressEvery = 100
)

const lowercase = "abcdefghijklmnopqrstuvwxyz"
const letters = lowercase + "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func main() {
	file := flag.String("file", "data.db", "path to the data file")
	n := flag.Int("n", 2000, "number of records to write")
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	store, err := pollenstore.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to open store")
	}
	defer store.Close()

	start := time.Now()
	for i := 0; i < *n; i++ {
		key := randomString(rng, lowercase, keyLength)
		value := randomString(rng, letters, (1+rng.Intn(maxValueKiB))<<10)
		if err := store.Set(key, value); err != nil {
			log.Fatal().Err(err).Str("key", key).Msg("set failed")
		}

		if (i+1)%progressEvery == 0 {
			log.Info().Int("written", i+1).Msg("progress")
		}
	}

	log.Info().Int("records", *n).Dur("elapsed", time.Since(start)).Msg("load finished")
}

func randomString(rng *rand.Rand, alphabet string, length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(buf)
}
