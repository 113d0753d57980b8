package cli

import (
	"fmt"

	"github.com/xonecas/sensi/internal/constants"
	"github.com/xonecas/sensi/internal/styles"
)

// PrintVersion displays the version information.
func PrintVersion(version string) {
	fmt.Printf("%s %s\n", constants.AppName, version)
}

// PrintHelp displays usage information with CLI styling.
func PrintHelp(version string) {
	fmt.Println(styles.Brand.Render("╔══════════════════════════════════════╗"))
	fmt.Println(styles.Brand.Render("║") + "    " + styles.BrandBold.Render("sensi") + " - sensitivity converter     " + styles.Brand.Render("║"))
	fmt.Println(styles.Brand.Render("╚══════════════════════════════════════╝"))
	fmt.Println(styles.Muted.Render("version " + version))
	fmt.Println()
	fmt.Println(styles.BrandBold.Render("USAGE:"))
	fmt.Println("  sensi [flags]")
	fmt.Println()
	fmt.Println(styles.BrandBold.Render("FLAGS:"))
	fmt.Println("  " + styles.Secondary.Render("-h, --help") + "              Show this help message")
	fmt.Println("  " + styles.Secondary.Render("-v, --version") + "           Show version information")
	fmt.Println("  " + styles.Secondary.Render("-c, --config") + " PATH       Path to config file (default: config.toml)")
	fmt.Println("  " + styles.Secondary.Render("-d, --debug") + "             Enable debug logging")
	fmt.Println("  " + styles.Secondary.Render("-l, --list-games") + "        List supported games and exit")
	fmt.Println("  " + styles.Secondary.Render("-g, --game") + " NAME         Suggest a sensitivity from your baseline")
	fmt.Println("  " + styles.Secondary.Render("--dpi") + " N                 Mouse DPI (default: baseline DPI)")
	fmt.Println("  " + styles.Secondary.Render("--from") + " NAME --sens S --to NAME [--to-dpi N]")
	fmt.Println("                          Convert a sensitivity between games")
	fmt.Println("  " + styles.Secondary.Render("-b, --baseline") + " CM       Set your baseline cm/360 and exit")
	fmt.Println("  " + styles.Secondary.Render("-H, --history") + "           Show recent conversions and exit")
	fmt.Println("  " + styles.Secondary.Render("-w, --watch") + "             Watch for running games")
	fmt.Println("  " + styles.Secondary.Render("-t, --tui") + "               Use terminal UI mode")
	fmt.Println()
	fmt.Println(styles.BrandBold.Render("EXAMPLES:"))
	fmt.Println("  # Set a 34.6 cm/360 baseline at 800 DPI")
	fmt.Println("  sensi -b 34.6 --dpi 800")
	fmt.Println()
	fmt.Println("  # Sensitivity for Apex Legends from the baseline")
	fmt.Println("  sensi -g \"Apex Legends\"")
	fmt.Println()
	fmt.Println("  # Counter-Strike 2 at 1.2 / 800 DPI to Valorant")
	fmt.Println("  sensi --from \"Counter-Strike 2\" --sens 1.2 --dpi 800 --to Valorant")
	fmt.Println()
	fmt.Println("  # Interactive TUI with game detection")
	fmt.Println("  sensi -t -w")
	fmt.Println()
	fmt.Println(styles.BrandBold.Render("IN-SESSION COMMANDS:"))
	fmt.Println("  " + styles.Secondary.Render("/help") + "                  List conversion commands")
	fmt.Println("  " + styles.Secondary.Render("/watch [start|stop]") + "    Show, start or stop game detection")
	fmt.Println("  " + styles.Secondary.Render("exit, quit") + "             Exit the session")
	fmt.Println()
	fmt.Println(styles.Muted.Render("Note: sensi runs without a config file; see config.toml for catalogs and detection."))
	fmt.Println()
}
