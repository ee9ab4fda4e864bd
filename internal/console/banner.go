package console

import (
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`  _____ _           _         ___      _ _   `,
	` |_   _(_)_ _  __ __| |___ _ _| _ ) ___| | |_ `,
	`   | | | | ' \/ _' / -_) '_| _ \/ _ \ |  _|`,
	`   |_| |_|_||_\__,_\___|_| |___/\___/_|\__|`,
}

// Using a subtle gradient-like color scheme (Indigo/Violet/Rose)
var bannerColors = []string{"#818cf8", "#a78bfa", "#e879f9", "#fb7185"}

// Banner prints the program name and version.
func (c *Console) Banner(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("\n")
	for i, line := range bannerLines {
		if c.profile == termenv.Ascii {
			c.printf("%s\n", line)
			continue
		}
		c.printf("%s\n", termenv.String(line).Foreground(c.profile.Color(bannerColors[i])))
	}
	c.printf("%s\n\n", c.dim("  v"+strings.TrimSpace(version)))
}
