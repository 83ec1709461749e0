// Package viz is the terminal front end: a Bubble Tea program where a
// mouse drag throws the sand pendulum.
//
//   - [Lab]: the interactive model
//   - [Canvas]: braille pixel canvas, 2×4 dots per cell
//   - [Viewport]: maps metres to canvas dots with spring-eased zoom
//
// # Controls
//
//	drag     - press to place the bob, release to throw it
//	tab      - select a field
//	enter    - edit the selected field, enter again to apply
//	↑/↓      - nudge the selected field by 5%
//	p        - toggle predicted path
//	r        - toggle frequency ratio
//	l        - pick a length preset
//	c        - clear
//	s        - save figure
//	t        - cycle themes
//	?        - help
//	q        - quit
package viz
