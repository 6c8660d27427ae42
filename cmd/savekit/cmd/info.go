package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rawbytedev/savekit/pkg/item"
	"github.com/rawbytedev/savekit/pkg/savedata"
)

type summary struct {
	Version     uint8           `json:"version"`
	PlayTime    string          `json:"play_time"`
	PlaySeconds uint32          `json:"play_seconds"`
	SavedAt     string          `json:"saved_at"`
	Gold        uint32          `json:"gold"`
	MapID       uint16          `json:"map_id"`
	MapTime     string          `json:"map_time"`
	Weather     uint16          `json:"weather"`
	PlayerPos   savedata.Pos    `json:"player_pos"`
	Flags       map[string]bool `json:"flags"`
	Party       []uint16        `json:"party"`
	Guests      []uint16        `json:"guests"`
	Items       map[string]int  `json:"items"`
}

func summarize(sd *savedata.SaveData) summary {
	s := summary{
		Version:     sd.Version,
		PlayTime:    sd.PlayTime.String(),
		PlaySeconds: sd.PlayTime.Seconds(),
		SavedAt:     sd.Timestamp.ISODate() + " " + sd.Timestamp.ISOTime(),
		Gold:        sd.Gold,
		MapID:       sd.MapID,
		MapTime:     sd.MapTime.String(),
		Weather:     sd.Weather,
		PlayerPos:   sd.PlayerPos,
		Flags:       make(map[string]bool, len(savedata.AllFlags)),
		Party:       slices.Collect(sd.PartyCharacters.All()),
		Guests:      slices.Collect(sd.PartyGuests.All()),
		Items:       make(map[string]int),
	}
	for _, f := range savedata.AllFlags {
		s.Flags[f.String()] = sd.IsFlagSet(f)
	}
	for _, t := range item.Types {
		if !t.HasSlots() {
			continue
		}
		n := 0
		for range sd.Inventory.Slots(t).Active() {
			n++
		}
		s.Items[t.LangID()] = n
	}
	return s
}

func (s summary) print(w io.Writer) {
	fmt.Fprintf(w, "version:   %d\n", s.Version)
	fmt.Fprintf(w, "play time: %s\n", s.PlayTime)
	fmt.Fprintf(w, "saved at:  %s\n", s.SavedAt)
	fmt.Fprintf(w, "gold:      %d\n", s.Gold)
	fmt.Fprintf(w, "map:       %d at %s, weather %d\n", s.MapID, s.MapTime, s.Weather)
	fmt.Fprintf(w, "position:  %.2f %.2f %.2f\n", s.PlayerPos.X, s.PlayerPos.Y, s.PlayerPos.Z)
	fmt.Fprintf(w, "party:     %v\n", s.Party)
	if len(s.Guests) > 0 {
		fmt.Fprintf(w, "guests:    %v\n", s.Guests)
	}
	for _, f := range savedata.AllFlags {
		if s.Flags[f.String()] {
			fmt.Fprintf(w, "flag:      %s\n", f)
		}
	}
	for _, t := range item.Types {
		if n, ok := s.Items[t.LangID()]; ok && n > 0 {
			fmt.Fprintf(w, "items:     %-10s %d\n", t.LangID(), n)
		}
	}
}

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print a summary of a save",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openSave(cmd, args[0])
		if err != nil {
			return err
		}
		s := summarize(f.Data)
		if asJSON, _ := cmd.Flags().GetBool("json"); !asJSON {
			s.print(cmd.OutOrStdout())
			return nil
		}
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("json", false, "Print JSON")
}
