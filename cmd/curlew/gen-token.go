package main

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/spf13/cobra"
	"go.curlew.org/curlew/core"
)

func init() {
	genToken.Flags().Duration("expiry", 0, "token validity, 0 for no expiration")
	rootCmd.AddCommand(genToken)
}

var genToken = &cobra.Command{
	Use:   "gen-token",
	Short: "Generate a comment submission token",
	RunE: func(cmd *cobra.Command, args []string) error {
		expiry, err := cmd.Flags().GetDuration("expiry")
		if err != nil {
			return err
		}

		c, err := core.ParseConfig()
		if err != nil {
			return err
		}

		secret := base64.StdEncoding.EncodeToString([]byte(c.TokensSecret))
		auth := jwtauth.New("HS256", []byte(secret), nil)

		claims := map[string]interface{}{
			jwt.SubjectKey:  "comments",
			jwt.JwtIDKey:    uuid.New().String(),
			jwt.IssuedAtKey: time.Now().Unix(),
		}
		if expiry > 0 {
			claims[jwt.ExpirationKey] = time.Now().Add(expiry)
		}

		_, signed, err := auth.Encode(claims)
		if err != nil {
			return err
		}

		fmt.Println(signed)
		return nil
	},
}
