// Package shell implements the terminal's command interpreter: command line
// parsing, a table-driven command registry with the filesystem builtins, and
// tab completion of command names and paths.
//
// Commands never return Go errors. Every failure is an *Output of KindError
// whose text is part of the user-visible contract, such as
// "ls: /nowhere: No such file or directory".
package shell
