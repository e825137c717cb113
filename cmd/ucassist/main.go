package main

import (
	"ucassist-backend/cmd/ucassist/commands"
	"ucassist-backend/internal/components/serviceutil"
)

func main() {
	err := commands.ExecuteContext(serviceutil.SignalContext())
	if err != nil {
		serviceutil.Fatal("ucassist failed", err)
	}
}
