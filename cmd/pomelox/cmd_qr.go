package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/pomelox/pomelox/internal/pomelox/service/identity"
	"github.com/spf13/cobra"
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Encode or decode QR identity tokens",
}

var qrEncodeCmd = &cobra.Command{
	Use:   "encode <raw-user.json|->",
	Short: "Encode a raw user record into an identity token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		raw, err := identity.ParseRawUser(data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), identity.EncodeIdentity(identity.MapUser(raw)))
		return err
	},
}

var qrDecodeCmd = &cobra.Command{
	Use:   "decode <token>",
	Short: "Decode an identity token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userIdentity, err := identity.DecodeIdentity(args[0])
		if err != nil {
			return err
		}
		out, err := sonic.ConfigStd.MarshalIndent(userIdentity, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	qrCmd.AddCommand(qrEncodeCmd)
	qrCmd.AddCommand(qrDecodeCmd)
}

// readInput "-" 表示从标准输入读取
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
