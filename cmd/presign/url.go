package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/forestrie/go-presign/internal/objectkey"
	"github.com/forestrie/go-presign/signer"
)

type urlOptions struct {
	method      string
	bucket      string
	region      string
	expires     int
	contentType string
	file        string
	query       []string
}

func newURLCmd(global *globalOptions) *cobra.Command {
	opts := &urlOptions{}

	cmd := &cobra.Command{
		Use:   "url [key]",
		Short: "Print a presigned URL for an object",
		Long: `Print a presigned URL for an object.

Give the object key as the argument, or --file to generate a unique upload key
from a file name. Headers the client must send with the request are printed to
stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := global.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			switch {
			case key != "" && opts.file != "":
				return errors.New("give either a key or --file, not both")
			case opts.file != "":
				g := objectkey.New(objectkey.WithPrefix(cfg.Upload.Prefix))
				if key, err = g.Key(opts.file); err != nil {
					return err
				}
			case key == "":
				return errors.New("a key or --file is required")
			}

			pairs, err := parsePairs("query", opts.query)
			if err != nil {
				return err
			}
			query := make([]signer.QueryParam, 0, len(pairs))
			for _, p := range pairs {
				query = append(query, signer.QueryParam{Name: p[0], Value: p[1]})
			}

			var headers http.Header
			if opts.contentType != "" {
				headers = http.Header{"Content-Type": {opts.contentType}}
			}

			bucket := cfg.S3.Bucket
			if opts.bucket != "" {
				bucket = opts.bucket
			}
			region := cfg.AWS.Region
			if opts.region != "" {
				region = opts.region
			}
			expires := cfg.Upload.DefaultExpires()
			if opts.expires != 0 {
				expires = time.Duration(opts.expires) * time.Second
			}

			u, err := cfg.Presigner().PresignObject(cfg.Credentials(), signer.ObjectRequest{
				Method:  opts.method,
				Bucket:  bucket,
				Key:     key,
				Region:  region,
				Expires: expires,
				Query:   query,
				Headers: headers,
			})
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"method":     u.Method,
				"bucket":     bucket,
				"key":        key,
				"expires_at": u.ExpiresAt,
			}).Debug("presigned")

			fmt.Fprintln(cmd.OutOrStdout(), u.URL)
			for k := range u.SignedHeaders {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", k, u.SignedHeaders.Get(k))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.method, "method", "m", http.MethodPut, "HTTP method the URL authorizes")
	f.StringVar(&opts.bucket, "bucket", "", "Bucket (default S3_BUCKET_NAME)")
	f.StringVar(&opts.region, "region", "", "Signing region (default AWS_REGION)")
	f.IntVarP(&opts.expires, "expires", "e", 0, "Validity in seconds (default DEFAULT_EXPIRES_IN)")
	f.StringVar(&opts.contentType, "content-type", "", "Content-Type to sign into the URL")
	f.StringVarP(&opts.file, "file", "f", "", "File name to generate a unique upload key from")
	f.StringArrayVar(&opts.query, "query", nil, "Extra signed query parameter key=value (repeatable)")
	return cmd
}
