// Command presign issues and checks S3 presigned URLs and serves them over
// HTTP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
