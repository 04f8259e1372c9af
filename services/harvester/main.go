package main

import "github.com/stoik/spf-harvester/services/harvester/internal/app"

func main() {
	app.Execute()
}
