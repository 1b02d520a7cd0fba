package pref

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/dPrefs/lib/conv"
	"github.com/ValentinKolb/dPrefs/lib/native"
	"github.com/ValentinKolb/dPrefs/lib/prop"
	"github.com/spf13/cobra"
)

// rawProp returns an accessor for key that passes native values through
func rawProp(key string) (*prop.Prop[native.Value], error) {
	return prop.NewDefault(key, session.Suite, conv.Native)
}

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			p, err := rawProp(key)
			if err != nil {
				return err
			}
			found, err := p.IsSet()
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			v, err := p.Get()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=true, kind=%s, value=%s\n", key, native.KindOf(v), native.Format(v))
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if found, err := session.Suite.Has(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%t\n", key, found)
			}
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Long:  "Sets the value for a key. The value is parsed according to --kind: blobs are base64, times RFC 3339 (e.g. 2006-01-02T15:04:05Z)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			v, err := ParseValue(kind, args[1])
			if err != nil {
				return err
			}
			p, err := rawProp(args[0])
			if err != nil {
				return err
			}
			if err := p.Set(v); err != nil {
				return err
			}
			if err := session.Persist(); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rawProp(args[0])
			if err != nil {
				return err
			}
			if err := p.Reset(); err != nil {
				return err
			}
			if err := session.Persist(); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys of the suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := session.Suite.Keys()
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Println(k)
			}
			return nil
		},
	}
	suitesCmd = &cobra.Command{
		Use:   "suites",
		Short: "Lists all suites of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := session.Suites()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Prints all entries of the suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			keys, err := session.Suite.Keys()
			if err != nil {
				return err
			}
			entries := make(map[string]native.Value, len(keys))
			for _, k := range keys {
				v, ok, err := session.Suite.Get(k)
				if err != nil {
					return err
				}
				if ok {
					entries[k] = v
				}
			}

			switch strings.ToLower(format) {
			case "yaml":
				out, err := dumpYAML(entries)
				if err != nil {
					return err
				}
				fmt.Print(string(out))
			case "text":
				fmt.Print(dumpText(keys, entries))
			default:
				return fmt.Errorf("invalid format %s. must be one of yaml, text", format)
			}
			return nil
		},
	}
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Prints the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(session.Config.String())
			return nil
		},
	}
)

func init() {
	setCmd.Flags().String("kind", "string", "Kind of the value ("+strings.Join(kinds, ", ")+")")
	dumpCmd.Flags().String("format", "yaml", "Output format (yaml, text)")
}
