// Serves a read-only preview of an existing report output directory.
// Needs no dataset configuration, only the output directory and port.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"pubreport/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	outDir := os.Getenv("REPORT_OUT_DIR")
	if outDir == "" {
		outDir = "./out"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := ui.NewServer(outDir)
	if err := server.ListenAndServe(port); err != nil {
		log.Fatalf("Preview server failed: %v", err)
	}
}
