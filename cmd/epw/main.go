// Command epw decodes, verifies and exports EnergyPlus Weather files.
//
// Usage:
//
//	go run ./cmd/epw inspect data/sample/london_gatwick.epw
//	go run ./cmd/epw check -v data/sample/*.epw
//	go run ./cmd/epw export --db weather.db data/sample/*.epw
//	go run ./cmd/epw fields data/sample/london_gatwick.epw location city latitude
package main

func main() {
	Execute()
}
