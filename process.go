package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"voicetracker/capture"
	"voicetracker/config"
	"voicetracker/expense"
	"voicetracker/session"
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Extract expenses from an existing recording",
	Args:  cobra.ExactArgs(1),
	Run:   runProcess,
}

func init() {
	processCmd.Flags().Bool("csv", false, "Also export the result as CSV")
}

func runProcess(cmd *cobra.Command, args []string) {
	mainLogger, _, gemLogger, _ := createLoggers()
	cfg := config.Load(viper.GetViper())

	clip, err := capture.LoadFile(args[0])
	if err != nil {
		mainLogger.Fatal("load recording", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newTranscriber(cfg, gemLogger)
	defer client.Close()

	report, err := client.Submit(ctx, clip)
	if err != nil {
		mainLogger.Fatal(session.UserMessage(err), "error", err)
	}

	printReport(os.Stdout, report)

	if export, _ := cmd.Flags().GetBool("csv"); export {
		path, err := expense.Export(cfg.ExportDir, report, time.Now())
		if err != nil {
			mainLogger.Fatal("export csv", "error", err)
		}
		fmt.Printf("CSV written: %s\n", path)
	}
}

func printReport(w io.Writer, r expense.Report) {
	fmt.Fprintf(w, "Transcription: %s\n", r.Transcription)
	fmt.Fprintf(w, "Translation:   %s\n\n", r.Translation)

	if len(r.Expenses) == 0 {
		fmt.Fprintln(w, "No specific items extracted, but audio was processed.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Item", "Category", "Amount"})
	table.SetFooter([]string{"", "Total", expense.Money(r.Currency, r.TotalAmount)})
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, line := range r.Expenses {
		table.Append([]string{
			line.Item,
			line.Category,
			expense.Money(r.Currency, line.Amount),
		})
	}

	table.Render()
}
