package main

import "github.com/VuDinhTrung-461994/DigitalSignatureManager/cmd"

func main() {
	cmd.Execute()
}
