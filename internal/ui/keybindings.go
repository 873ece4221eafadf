package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Helpers ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q", "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "ctrl+[")
}

// isUp and isDown accept k/j when vim keys are on.
func isUp(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "up") || (vim && isKey(msg, "k"))
}

func isDown(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "down") || (vim && isKey(msg, "j"))
}

func isLeft(msg tea.KeyMsg) bool {
	return isKey(msg, "left")
}

func isRight(msg tea.KeyMsg) bool {
	return isKey(msg, "right")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter")
}

func isSpace(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeySpace || isKey(msg, " ", "space")
}

func isSubmit(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+s")
}

func isNextField(msg tea.KeyMsg) bool {
	return isKey(msg, "tab")
}

func isPrevField(msg tea.KeyMsg) bool {
	return isKey(msg, "shift+tab")
}
