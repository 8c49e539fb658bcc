// gsales-sink is a development stand-in for the remote collaborator: it
// accepts the form-encoded sale POST and answers with a readiness
// acknowledgment, or rejects everything when started with -reject.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
)

func main() {
	var (
		addr   = flag.String("addr", ":8787", "listen address")
		reject = flag.Bool("reject", false, "refuse every sale (answer status busy)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			// Probes use HEAD/GET; any response counts as reachable.
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		logger.Info("sale received",
			"id", r.PostFormValue("id"),
			"item", r.PostFormValue("item"),
			"qty", r.PostFormValue("qty"),
			"price", r.PostFormValue("price"),
			"createdAt", r.PostFormValue("createdAt"),
		)

		status := "ready"
		if *reject {
			status = "busy"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	})

	logger.Info("sink listening", "addr", *addr, "reject", *reject)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
