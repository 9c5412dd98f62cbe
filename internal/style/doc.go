// Package style provides the Waybar stylesheets for the bar style variants.
package style
