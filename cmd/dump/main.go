package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/jvm/classfile"
)

func main() {
	var (
		classPath   = flag.String("class", "", "Path to class file")
		showPool    = flag.Bool("pool", false, "Print the full constant pool")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose decode logging")
	)
	flag.Parse()

	if *classPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: dump -class <file.class> [-pool] [-v]")
		fmt.Fprintln(os.Stderr, "       dump -class <file.class> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		classfile.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(*classPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*classPath, *showPool); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, showPool bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	class, err := classfile.DecodeClass(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fmt.Printf("Class: %s\n", path)
	fmt.Printf("Version: %d.%d\n", class.MajorVersion, class.MinorVersion)
	if flags := class.Flags.String(); flags != "" {
		fmt.Printf("Flags: %s\n", flags)
	}
	if name, err := class.Constants.ClassName(class.ThisClass); err == nil {
		fmt.Printf("This: %s\n", name)
	}
	if name, err := class.Constants.ClassName(class.SuperClass); err == nil {
		fmt.Printf("Super: %s\n", name)
	}
	fmt.Printf("Constant pool: %d slots\n", len(class.Constants))

	if len(class.Interfaces) > 0 {
		fmt.Printf("\nInterfaces:\n")
		for _, idx := range class.Interfaces {
			name, err := class.Constants.ClassName(idx)
			if err != nil {
				name = fmt.Sprintf("#%d", idx)
			}
			fmt.Printf("  %s\n", name)
		}
	}

	fmt.Printf("\nFields: %d\n", len(class.Fields))
	for _, field := range class.Fields {
		fmt.Printf("  %s\n", memberString(class.Constants, field.Flags.String(), field.Name, field.Descriptor, field.Attributes))
	}

	fmt.Printf("\nMethods: %d\n", len(class.Methods))
	for _, method := range class.Methods {
		fmt.Printf("  %s\n", memberString(class.Constants, method.Flags.String(), method.Name, method.Descriptor, method.Attributes))
	}

	if showPool {
		fmt.Printf("\nConstant pool:\n")
		for i := range class.Constants {
			idx := classfile.ConstIndex(i + 1)
			entry, err := class.Constants.Resolve(idx)
			if err != nil {
				// The second slot of a Long or Double.
				fmt.Printf("  #%-4d <double-width slot>\n", idx)
				continue
			}
			fmt.Printf("  #%-4d %s\n", idx, entry)
		}
	}
	return nil
}

func memberString(pool classfile.ConstantPool, flags string, name, descriptor classfile.ConstIndex, attrs []classfile.Attribute) string {
	nameStr, err := pool.UTF8(name)
	if err != nil {
		nameStr = fmt.Sprintf("#%d", name)
	}
	descStr, err := pool.UTF8(descriptor)
	if err != nil {
		descStr = fmt.Sprintf("#%d", descriptor)
	}
	s := nameStr + " " + descStr
	if flags != "" {
		s = flags + " " + s
	}
	for _, attr := range attrs {
		attrName, err := pool.UTF8(attr.NameIndex())
		if err != nil {
			attrName = fmt.Sprintf("#%d", attr.NameIndex())
		}
		s += " [" + attrName + "]"
	}
	return s
}
