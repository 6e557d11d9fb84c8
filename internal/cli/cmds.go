package cli

func regCommands() {
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(forkCmd)
}
