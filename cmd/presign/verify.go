package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/forestrie/go-presign/signer"
)

func newVerifyCmd(global *globalOptions) *cobra.Command {
	var (
		method  string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "verify <url>",
		Short: "Check a presigned URL against the configured credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := global.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			pairs, err := parsePairs("header", headers)
			if err != nil {
				return err
			}
			header := make(http.Header, len(pairs))
			for _, p := range pairs {
				header.Add(p[0], p[1])
			}

			store := signer.NewStaticStore(cfg.Credentials())
			v, err := signer.VerifyURL(method, args[0], header, store, time.Now())
			if err != nil {
				log.WithError(err).Debug("verification failed")
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "valid: signed by %s for %s/%s, expires %s\n",
				v.AccessKeyID, v.Region, v.Service, v.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", http.MethodGet, "HTTP method the URL will be used with")
	cmd.Flags().StringArrayVar(&headers, "header", nil, "Signed header key=value sent with the request (repeatable)")
	return cmd
}
