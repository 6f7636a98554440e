package workerpool

// resetInit lets tests exercise Init more than once.
func resetInit() {
	initialized.Store(false)
}
