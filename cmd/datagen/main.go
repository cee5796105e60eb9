// datagen writes a synthetic transaction CSV with known fraud topologies
// injected into a background of random transfers: one 3-cycle, one fan-in
// burst, one shell chain and a handful of large transfers. Useful for demo
// uploads and for eyeballing detector output against a known ground truth.
//
// Usage:
//
//	datagen -out transactions.csv -accounts 40 -background 120 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"
)

func main() {
	out := flag.String("out", "transactions.csv", "output CSV path")
	accounts := flag.Int("accounts", 40, "number of background accounts")
	background := flag.Int("background", 120, "number of background transactions")
	seed := flag.Int64("seed", 0, "random seed (0 = current time)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"transaction_id", "sender_id", "receiver_id", "amount", "timestamp"}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	txSeq := 0
	emit := func(sender, receiver string, amount float64, at time.Time) {
		txSeq++
		record := []string{
			fmt.Sprintf("TX%05d", txSeq),
			sender,
			receiver,
			fmt.Sprintf("%.2f", amount),
			at.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			log.Fatalf("Failed to write record: %v", err)
		}
	}
	acct := func(i int) string { return fmt.Sprintf("ACC%03d", i) }

	// Background noise: random small transfers spread over two weeks.
	for i := 0; i < *background; i++ {
		s := rng.Intn(*accounts)
		r := rng.Intn(*accounts)
		for r == s {
			r = rng.Intn(*accounts)
		}
		emit(acct(s), acct(r), 20+rng.Float64()*480, base.Add(time.Duration(rng.Intn(14*24))*time.Hour))
	}

	// Cycle: three dedicated mules routing funds back to the origin.
	emit("MULE_A", "MULE_B", 950, base.Add(1*time.Hour))
	emit("MULE_B", "MULE_C", 940, base.Add(2*time.Hour))
	emit("MULE_C", "MULE_A", 930, base.Add(3*time.Hour))

	// Fan-in burst: four senders feed one aggregator inside an hour, then
	// the aggregator pays a beneficiary.
	for i := 1; i <= 4; i++ {
		emit(fmt.Sprintf("SMURF_%d", i), "AGGREGATOR", 280+float64(i), base.Add(time.Duration(i)*10*time.Minute))
	}
	emit("AGGREGATOR", "BENEFICIARY", 1100, base.Add(2*time.Hour))

	// Shell chain: three low-activity relays in a row.
	emit("SHELL_1", "SHELL_2", 400, base.Add(24*time.Hour))
	emit("SHELL_2", "SHELL_3", 395, base.Add(25*time.Hour))
	emit("SHELL_3", "SHELL_4", 390, base.Add(26*time.Hour))

	// Large transfers well above the reporting threshold.
	for i := 0; i < 3; i++ {
		emit(acct(rng.Intn(*accounts)), acct(rng.Intn(*accounts)), 3500+rng.Float64()*6000, base.Add(time.Duration(72+i)*time.Hour))
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush CSV: %v", err)
	}
	log.Printf("Wrote %d transactions to %s (seed %d)", txSeq, *out, *seed)
}
